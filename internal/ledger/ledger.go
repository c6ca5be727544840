package ledger

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Ledger maps a chat id to the title it had when it was first seen.
type Ledger map[int64]string

// Store reads and rewrites the known-chats file. The file holds one chat per
// line as "<id> <title>", sorted by title; titles may contain spaces, so a
// line is split on the first space only.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load returns an empty ledger when the file does not exist yet. A line
// without a parseable id makes the whole load fail.
func (s *Store) Load() (Ledger, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Ledger{}, nil
		}
		return nil, fmt.Errorf("open ledger: %w", err)
	}
	defer f.Close()

	known := Ledger{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		idStr, title, _ := strings.Cut(line, " ")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed ledger line %q: %w", line, err)
		}
		known[id] = title
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	return known, nil
}

// Save rewrites the whole file from the caller's in-memory view. The write
// goes to a temp file first and is renamed into place so a crash mid-write
// cannot truncate the ledger.
func (s *Store) Save(known Ledger) error {
	type record struct {
		id    int64
		title string
	}
	records := make([]record, 0, len(known))
	for id, title := range known {
		records = append(records, record{id: id, title: title})
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].title != records[j].title {
			return records[i].title < records[j].title
		}
		return records[i].id < records[j].id
	})

	var buf bytes.Buffer
	for _, r := range records {
		fmt.Fprintf(&buf, "%d %s\n", r.id, r.title)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace ledger: %w", err)
	}

	return nil
}
