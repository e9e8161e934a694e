package supply

import "strings"

// BlockSeparator divides supply entries inside the Suministros text.
const BlockSeparator = "\n---\n"

// Parse turns the raw Suministros text into records, in source order.
//
// Parsing runs in two stages: the text is cut into blocks on BlockSeparator,
// then each block is matched against "<id>: <description> (<status>)".
// Blocks that do not match are dropped without error.
func Parse(text string) []Record {
	records := make([]Record, 0)
	for _, block := range splitBlocks(text) {
		record, ok := matchBlock(block)
		if !ok {
			continue
		}
		records = append(records, record)
	}
	return records
}

func splitBlocks(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	raw := strings.Split(text, BlockSeparator)
	blocks := make([]string, 0, len(raw))
	for _, block := range raw {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		blocks = append(blocks, block)
	}
	return blocks
}

// matchBlock expects a trimmed block. The id ends at the first ':' and must
// stay on one line. The status is the last parenthesised group, which has to
// close the block; everything between the two is the description and may
// span several lines. The match is structural: the description and the status
// need at least one raw character each, and only the captures are trimmed
// afterwards, so a blank description or status still yields a record.
func matchBlock(block string) (Record, bool) {
	colon := strings.IndexByte(block, ':')
	if colon < 0 {
		return Record{}, false
	}
	id := block[:colon]
	if strings.ContainsRune(id, '\n') {
		return Record{}, false
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return Record{}, false
	}

	rest := block[colon+1:]
	if !strings.HasSuffix(rest, ")") {
		return Record{}, false
	}
	open := strings.LastIndexByte(rest, '(')
	if open < 0 {
		return Record{}, false
	}

	statusText := rest[open+1 : len(rest)-1]
	if statusText == "" || strings.ContainsRune(statusText, '\n') {
		return Record{}, false
	}

	description := rest[:open]
	if description == "" {
		return Record{}, false
	}

	return Record{
		Numero:      id,
		Descripcion: strings.TrimSpace(description),
		Estado:      Classify(strings.TrimSpace(statusText)),
	}, true
}
