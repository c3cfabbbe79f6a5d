// Copyright (C) 2022 Sneller, Inc.
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Command stablehashsum prints the fast or crypto stable digest of one or
// more byte-string inputs: files named on the command line, stdin ("-"), or
// a batch described by a YAML config file.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"sigs.k8s.io/yaml"

	"github.com/fldhash/stablehash"
)

// batchConfig describes a set of named inputs to hash in one invocation,
// loaded from -config. Each entry can request zstd decompression before the
// bytes are hashed, since that's the one container-format concern likely to
// show up wrapping otherwise-opaque payloads.
type batchConfig struct {
	Inputs []inputSpec `json:"inputs"`
}

type inputSpec struct {
	Path string `json:"path"`
	Zstd bool   `json:"zstd,omitempty"`
}

func main() {
	crypto := flag.Bool("crypto", false, "compute the crypto (BLAKE3-based) digest instead of the fast one")
	configPath := flag.String("config", "", "path to a YAML batch config (see batchConfig)")
	zstdInput := flag.Bool("zstd", false, "decompress every command-line input as zstd before hashing")
	flag.Parse()

	runID := uuid.New()
	logger := log.New(os.Stderr, fmt.Sprintf("stablehashsum[%s] ", runID), log.LstdFlags)

	var specs []inputSpec
	if *configPath != "" {
		cfg, err := loadBatchConfig(*configPath)
		if err != nil {
			logger.Fatalf("loading config %q: %s", *configPath, err)
		}
		specs = cfg.Inputs
	} else {
		args := flag.Args()
		if len(args) == 0 {
			args = []string{"-"}
		}
		for _, a := range args {
			specs = append(specs, inputSpec{Path: a, Zstd: *zstdInput})
		}
	}

	status := 0
	for _, spec := range specs {
		digest, err := hashOne(spec, *crypto)
		if err != nil {
			logger.Printf("%s: %s", spec.Path, err)
			status = 1
			continue
		}
		fmt.Printf("%s  %s\n", digest, spec.Path)
	}
	os.Exit(status)
}

func loadBatchConfig(path string) (*batchConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg batchConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

func hashOne(spec inputSpec, crypto bool) (string, error) {
	var r io.Reader
	if spec.Path == "-" {
		r = os.Stdin
	} else {
		f, err := os.Open(spec.Path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		r = f
	}
	if spec.Zstd {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return "", fmt.Errorf("zstd: %w", err)
		}
		defer zr.Close()
		r = zr
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	if crypto {
		d := stablehash.CryptoStableHash(raw)
		return hex.EncodeToString(d[:]), nil
	}
	d := stablehash.FastStableHash(raw)
	return hex.EncodeToString(d[:]), nil
}
