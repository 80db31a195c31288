// Command scanlabel runs the extraction pipeline over a label image
// from the command line. Handy for checking what the recognizer sees
// before blaming the date parser.
package main

import (
	"fmt"
	"os"

	"expirytrack/pkg/expiry"
	"expirytrack/pkg/ocr"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: go run ./cmd/scanlabel [-product] <image>")
		os.Exit(2)
	}
	mode := ocr.ModeExpiry
	path := os.Args[1]
	if path == "-product" {
		if len(os.Args) < 3 {
			fmt.Println("usage: go run ./cmd/scanlabel [-product] <image>")
			os.Exit(2)
		}
		mode = ocr.ModeProduct
		path = os.Args[2]
	}

	text, err := ocr.ExtractFromFile(path, mode)
	if err != nil {
		fmt.Printf("extract failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("text=%q\n", ocr.NormalizeText(text))

	if mode == ocr.ModeExpiry {
		if date, ok := expiry.Parse(text); ok {
			fmt.Printf("expiry=%s\n", date)
		} else {
			fmt.Println("expiry not found in text")
		}
	}
}
