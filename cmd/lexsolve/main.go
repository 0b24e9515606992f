// Copyright 2025 The puzzlehunt-tools Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Command lexsolve answers constrained word queries over a lexicon: wildcard
patterns, edit and Hamming distance, substrings, prefix completion, feeder
extraction, soft-constraint ranking and similarity lookups.

# Usage

One-shot queries print results and exit:

	lexsolve match 'c[aeiou]t'
	lexsolve fuzzy recieve -d 1
	lexsolve extract cart art tar --positions 1,1,1 --shuffle-feeders
	lexsolve rank '???' --targets c,a,

Long-running modes share the same loaded index:

	lexsolve serve        # msgpack IPC on stdin/stdout
	lexsolve repl         # interactive prompt

# Dictionary

The word list comes from --dict or [lexicon].path in the config file. Plain
text (one word per line, optional tab separated key), JSON records and binary
dict_NNNN.bin chunk directories are read; --format forces one. Without a
configured path ./data/words.txt, ./data/words.json and ./data are tried,
then the same names next to the executable.

# Configuration

Settings live in a TOML file created with defaults on first run:

	[lexicon]
	alphabet = "letters"
	lowercase = true

	[lexicon.replace]
	"ü" = "v"

	[search]
	wildcard = "?"
	max_results = 300
	time_limit_seconds = 60

	[extract]
	workers = 4
	zero_indexed = false

	[synonym]
	endpoint = "http://localhost:8080"
	vectors = "vectors.msgpack"

Use --config to point at another file. --debug enables timestamped debug
logs on stderr.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
