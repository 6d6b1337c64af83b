package transcript

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"time"
)

// RawSession is the lightweight fallback view of a transcript, used
// when no index exists for the project.
type RawSession struct {
	SessionID string
	Date      time.Time
	Messages  []string
	Matches   []string
}

// Scan reads a transcript and collects plain-string user messages,
// optionally recording the ones containing term (case-insensitive).
// Malformed lines are skipped; read failures yield a partial result.
func Scan(f LogFile, term string) *RawSession {
	res := &RawSession{SessionID: f.SessionID(), Date: f.ModTime}

	file, err := os.Open(f.Path)
	if err != nil {
		return res
	}
	defer file.Close()

	lowerTerm := strings.ToLower(term)

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var ev event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil {
			continue
		}
		if ev.Type != roleUser {
			continue
		}
		text := ev.Message.text()
		if text == "" || strings.HasPrefix(text, "<") {
			continue
		}
		res.Messages = append(res.Messages, truncate(text, 500))
		if term != "" && strings.Contains(strings.ToLower(text), lowerTerm) {
			res.Matches = append(res.Matches, truncate(text, 300))
		}
	}
	return res
}
