// Package parser defines the fixed vocabulary of analysis-parser
// identifiers and resolves the operative set for one run.
package parser

import (
	"fmt"
	"strings"
)

// ID names one external analysis parser. The vocabulary is fixed and
// case-sensitive.
type ID string

const (
	// ArgusFlow produces flow statistics from argus output.
	ArgusFlow ID = "argusFlow"
	// P0f fingerprints operating systems passively.
	P0f ID = "p0f"
	// Prads enumerates assets and services.
	Prads ID = "prads"
	// SnortAppID classifies application-layer protocols via snort.
	SnortAppID ID = "snortAppId"
	// SuricataHTTP extracts HTTP transactions from suricata logs.
	SuricataHTTP ID = "suricataHttp"
	// Httpry parses HTTP request/response traffic.
	Httpry ID = "httpry"
	// Tcpdstat summarizes protocol breakdown statistics.
	Tcpdstat ID = "tcpdstat"
	// SuricataEve parses suricata's EVE JSON event stream.
	SuricataEve ID = "suricataEve"
	// SnortIDS parses snort intrusion-detection alerts.
	SnortIDS ID = "snortIds"
	// Bro parses bro DPI logs.
	Bro ID = "bro"
	// Tcpflow reassembles TCP streams. Valid but not in the default set.
	Tcpflow ID = "tcpflow"
)

// IsValid checks if the identifier is part of the supported vocabulary.
func (id ID) IsValid() bool {
	switch id {
	case ArgusFlow, P0f, Prads, SnortAppID, SuricataHTTP, Httpry,
		Tcpdstat, SuricataEve, SnortIDS, Bro, Tcpflow:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (id ID) String() string {
	return string(id)
}

// Set is the ordered set of parsers for one run. Insertion order is
// preserved so execution order stays deterministic.
type Set []ID

// DefaultSet returns the documented default parser set in its fixed order.
func DefaultSet() Set {
	return Set{
		ArgusFlow,
		P0f,
		Prads,
		SnortAppID,
		SuricataHTTP,
		Httpry,
		Tcpdstat,
		SuricataEve,
		SnortIDS,
		Bro,
	}
}

// Select resolves the operative parser set from a user-supplied
// comma-separated list. An empty list selects the default set. Tokens are
// whitespace-trimmed; duplicates collapse to the first occurrence; an
// unknown token is a configuration error.
func Select(list string) (Set, error) {
	if strings.TrimSpace(list) == "" {
		return DefaultSet(), nil
	}

	seen := make(map[ID]bool)
	var set Set
	for _, token := range strings.Split(list, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id := ID(token)
		if !id.IsValid() {
			return nil, fmt.Errorf("unknown parser %q", token)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		set = append(set, id)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("parser list %q selects no parsers", list)
	}
	return set, nil
}

// Strings returns the set as plain strings, in order.
func (s Set) Strings() []string {
	out := make([]string, len(s))
	for i, id := range s {
		out[i] = string(id)
	}
	return out
}
