// Package autoxliff appends missing translation labels to XLIFF catalogs.
//
// An Interceptor wraps the application's translation lookup. When a label
// requested by a whitelisted package is not translated yet, the label is
// appended to the package's catalog with the untranslated text as target, so
// translators start from a pre-populated catalog instead of an empty one.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/autoxliff"
//	    "github.com/ZaguanLabs/autoxliff/catalog"
//	)
//
//	func main() {
//	    store := catalog.NewStore(catalog.Layout{Root: "Packages/Application"})
//
//	    i := autoxliff.NewInterceptor(autoxliff.NewCatalogLookup(store), store,
//	        autoxliff.WithWhitelist("Acme.Shop"),
//	    )
//
//	    text, err := i.Translate(context.Background(), autoxliff.LookupRequest{
//	        Label:   "Welcome back",
//	        Package: "Acme.Shop",
//	        Locale:  "de",
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(text) // Welcome back, and de/Main.xlf now has slug.welcome-back
//	}
package autoxliff
