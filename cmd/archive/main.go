// Command archive converts forecast API responses into the binary document
// form used by the cache and the sinks, or back to JSON for inspection.
//
// Usage:
//
//	go run ./cmd/archive -in response.json -out forecast.cbor
//	go run ./cmd/archive -decode -in forecast.cbor -out forecast.json
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/couchcryptid/forecast-client/internal/domain"
	json "github.com/goccy/go-json"
)

func main() {
	in := flag.String("in", "", "input file")
	out := flag.String("out", "", "output file")
	decode := flag.Bool("decode", false, "read a binary document and write JSON")
	flag.Parse()

	if *in == "" || *out == "" {
		flag.Usage()
		log.Fatal("missing required flags: -in, -out")
	}
	if err := run(*in, *out, *decode); err != nil {
		log.Fatal(err)
	}
}

func run(inPath, outPath string, decode bool) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", inPath, err)
	}

	var result []byte
	if decode {
		result, err = binaryToJSON(data)
	} else {
		result, err = jsonToBinary(data)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}

	if err := os.WriteFile(outPath, result, 0o644); err != nil { //nolint:gosec // output is not sensitive
		return fmt.Errorf("write %s: %w", outPath, err)
	}
	log.Printf("wrote %s (%d bytes)", outPath, len(result))
	return nil
}

func jsonToBinary(data []byte) ([]byte, error) {
	f, err := domain.DecodeForecast(data)
	if err != nil {
		return nil, err
	}
	return domain.EncodeBinary(f)
}

func binaryToJSON(data []byte) ([]byte, error) {
	f, err := domain.DecodeBinary(data)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(f, "", "  ")
}
