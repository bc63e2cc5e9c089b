// Command urlshotctl requests screenshots from a urlshot service.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/creatorstation/urlshot/pkg/client"
	"github.com/spf13/pflag"
)

func main() {
	server := pflag.StringP("server", "s", "http://localhost:5050", "service base URL")
	key := pflag.StringP("key", "k", os.Getenv("URLSHOT_KEY"), "API key")
	size := pflag.String("size", "small", "thumbnail size name")
	pflag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: urlshotctl [flags] <url>...\n")
		pflag.PrintDefaults()
	}
	pflag.Parse()

	if pflag.NArg() == 0 {
		pflag.Usage()
		os.Exit(2)
	}

	c := client.New(*server, *key)

	failed := false
	for _, url := range pflag.Args() {
		img, err := c.Screenshot(context.Background(), url, *size)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", url, err)
			failed = true
			continue
		}
		fmt.Printf("%s\t%s\n", url, img)
	}

	if failed {
		os.Exit(1)
	}
}
