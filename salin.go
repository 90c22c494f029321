// Package salin resolves Ata Manobo phrases to English through a layered
// set of translation tiers.
//
// A request is answered by the first tier that can serve it:
//
//  1. the translation memory (exact match after normalization),
//  2. word-by-word decomposition over the memory, smoothed by the remote
//     service when it is reachable,
//  3. the remote generative service when the network is reachable, or
//  4. the local neural engine when it is not.
//
// Newly resolved phrases are written back to the memory.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/salin"
//	    "github.com/ZaguanLabs/salin/cache"
//	    "github.com/ZaguanLabs/salin/probe"
//	    "github.com/ZaguanLabs/salin/provider"
//	)
//
//	func main() {
//	    mem, err := cache.Open(cache.NewFileStore("translation_memory.json"))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    remote := provider.NewOpenAIProvider(provider.OpenAIConfig{
//	        APIKey: os.Getenv("OPENAI_API_KEY"),
//	    })
//
//	    r := salin.NewResolver(mem,
//	        salin.WithRemote(remote),
//	        salin.WithProber(probe.NewTCPProber(probe.DefaultAddress, probe.DefaultTimeout)),
//	    )
//
//	    result, err := r.Resolve(context.Background(), "Maayad ha masalem")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Translation, result.Tier)
//	}
package salin
