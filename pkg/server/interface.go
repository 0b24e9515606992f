/*
Package server implements msgpack IPC for lexicon queries.

Clients write a stream of msgpack maps to stdin and read one response per
request from stdout. Every request carries an "id" echoed in its response and
an "op" naming the query:

	{"id": "1", "op": "match", "p": "ca?"}
	{"id": "2", "op": "fuzzy", "p": "cta", "d": 1}
	{"id": "3", "op": "extract", "feeders": ["cart", "art"], "positions": ["1", "*"]}
	{"id": "4", "op": "rank", "p": "???", "soft": ["c", "", "t"]}
	{"id": "5", "op": "synonym", "q": "feline", "pool": 200, "max_len": 4}

Word lists come back as {"id", "s": [{"w", "k", "d"}], "c", "t"} where t is
the handling time in microseconds. Failures come back as {"id", "e", "c"}
with c one of 400 (invalid input), 408 (time limit), 503 (similarity service
unavailable) or 500.

An extraction that hits the time limit still returns what it found, flagged
partial, with e and code set.
*/
package server

import "github.com/wwhiteqwq/puzzlehunt-tools/pkg/synonym"

// Error codes carried in the "c" field of ErrorResponse.
const (
	CodeInvalid     = 400
	CodeTimeout     = 408
	CodeInternal    = 500
	CodeUnavailable = 503
)

// Request is the union of every op's fields.
type Request struct {
	ID string `msgpack:"id"`
	Op string `msgpack:"op"`

	// match, fuzzy, hamming, substring, complete, rank
	Pattern  string `msgpack:"p,omitempty"`
	Distance *int   `msgpack:"d,omitempty"`
	Limit    int    `msgpack:"l,omitempty"`

	// extract
	Feeders        []string `msgpack:"feeders,omitempty"`
	Positions      []string `msgpack:"positions,omitempty"`
	ShuffleFeeders bool     `msgpack:"shuffle_feeders,omitempty"`
	ShuffleIndices bool     `msgpack:"shuffle_indices,omitempty"`
	ZeroIndexed    *bool    `msgpack:"zero_indexed,omitempty"`
	Sort           string   `msgpack:"sort,omitempty"`

	// rank
	Soft []string `msgpack:"soft,omitempty"`

	// synonym
	Query     string `msgpack:"q,omitempty"`
	Pool      int    `msgpack:"pool,omitempty"`
	MinLen    int    `msgpack:"min_len,omitempty"`
	MaxLen    int    `msgpack:"max_len,omitempty"`
	InLexicon bool   `msgpack:"in_lexicon,omitempty"`
}

// WordResult is one word in a list response.
type WordResult struct {
	Word     string `msgpack:"w"`
	Key      int    `msgpack:"k"`
	Distance int    `msgpack:"d,omitempty"`
}

// WordsResponse answers match, fuzzy, hamming, substring and complete.
type WordsResponse struct {
	ID        string       `msgpack:"id"`
	Words     []WordResult `msgpack:"s"`
	Count     int          `msgpack:"c"`
	TimeTaken int64        `msgpack:"t"`
}

// PickResult is the character one feeder contributed.
type PickResult struct {
	Feeder   int    `msgpack:"f"`
	Position int    `msgpack:"p"`
	Char     string `msgpack:"ch"`
	Inferred bool   `msgpack:"i,omitempty"`
}

// ExtractionResult is one reading that spells a word.
type ExtractionResult struct {
	Word       string       `msgpack:"w"`
	Key        int          `msgpack:"k"`
	Order      []int        `msgpack:"order"`
	Assignment []int        `msgpack:"assignment"`
	Picks      []PickResult `msgpack:"picks"`
}

// ExtractResponse answers extract.
type ExtractResponse struct {
	ID          string             `msgpack:"id"`
	Extractions []ExtractionResult `msgpack:"s"`
	Count       int                `msgpack:"c"`
	Nodes       int64              `msgpack:"nodes"`
	Pruned      int64              `msgpack:"pruned"`
	Partial     bool               `msgpack:"partial,omitempty"`
	Error       string             `msgpack:"e,omitempty"`
	Code        int                `msgpack:"code,omitempty"`
	TimeTaken   int64              `msgpack:"t"`
}

// CandidateResult is one ranked word.
type CandidateResult struct {
	Word      string `msgpack:"w"`
	Key       int    `msgpack:"k"`
	Score     int    `msgpack:"score"`
	Satisfied []int  `msgpack:"sat,omitempty"`
}

// RankResponse answers rank.
type RankResponse struct {
	ID         string            `msgpack:"id"`
	Candidates []CandidateResult `msgpack:"s"`
	Count      int               `msgpack:"c"`
	TimeTaken  int64             `msgpack:"t"`
}

// SynonymResponse answers synonym.
type SynonymResponse struct {
	ID        string           `msgpack:"id"`
	Words     []synonym.Scored `msgpack:"s"`
	Count     int              `msgpack:"c"`
	TimeTaken int64            `msgpack:"t"`
}

// StatusResponse answers health and announces readiness.
type StatusResponse struct {
	ID     string         `msgpack:"id,omitempty"`
	Status string         `msgpack:"status"`
	Words  int            `msgpack:"words,omitempty"`
	Oracle string         `msgpack:"oracle,omitempty"`
	Stats  map[string]int `msgpack:"stats,omitempty"`
}

// ErrorResponse holds basic error information for a failed request.
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
