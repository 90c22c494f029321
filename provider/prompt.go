package provider

import (
	"fmt"
	"strings"

	"github.com/ZaguanLabs/salin"
)

// BuildSystemPrompt renders the system instruction for a remote request.
// Example keys are embedded as one block and their values as a second block
// in the same order, so the model can pair them by position.
func BuildSystemPrompt(req RemoteRequest) string {
	source := salin.GetLanguageName(orDefault(req.SourceLang, salin.DefaultSourceLang))
	target := salin.GetLanguageName(orDefault(req.TargetLang, salin.DefaultTargetLang))

	var b strings.Builder

	fmt.Fprintf(&b, "Use the following internal rules to translate from %s to %s:\n", source, target)
	if req.Reconstruct {
		fmt.Fprintf(&b, "- The input is a word-by-word %s draft assembled from stored translations.\n", target)
		fmt.Fprintf(&b, "- Rewrite the draft as one fluent %s sentence with the same meaning.\n", target)
		b.WriteString("- Keep every word that carries meaning. Do not add new content.\n")
	} else {
		fmt.Fprintf(&b, "- Only translate if the input is in %s.\n", source)
		fmt.Fprintf(&b, "- If the input matches a stored %s example, return its matching %s translation.\n", source, target)
		fmt.Fprintf(&b, "- Never return anything in %s.\n", source)
	}
	b.WriteString("- Output must be in lowercase only.\n")
	b.WriteString("- Preserve all punctuation exactly as in the input.\n")
	fmt.Fprintf(&b, "- Do not use the %s outputs as examples of possible input.\n", target)
	b.WriteString("- No extra explanation or metadata should be returned.\n\n")

	keys := make([]string, len(req.Examples))
	values := make([]string, len(req.Examples))
	for i, ex := range req.Examples {
		keys[i] = ex.Source
		values[i] = ex.Target
	}

	b.WriteString("Stored examples:\n")
	fmt.Fprintf(&b, "%s inputs:\n%s\n\n", source, strings.Join(keys, "\n"))
	fmt.Fprintf(&b, "Matching %s outputs:\n%s", target, strings.Join(values, "\n"))

	return b.String()
}

// trimReply strips surrounding whitespace and a single pair of wrapping
// quotes or code fences that some models add.
func trimReply(content string) string {
	reply := strings.TrimSpace(content)
	if strings.HasPrefix(reply, "```") && strings.HasSuffix(reply, "```") && len(reply) >= 6 {
		reply = strings.TrimSpace(reply[3 : len(reply)-3])
	}
	return reply
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
