package commands

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/microwire-protocol/microwire-go/pkg/log"
)

// fileStats accumulates summary statistics over a log file.
type fileStats struct {
	total      int
	byLayer    map[log.Layer]int
	byCategory map[log.Category]int
	byDir      map[log.Direction]int
	sessions   map[string]int
	bytesOut   int
	bytesIn    int
	errors     int
	first      time.Time
	last       time.Time
}

// Stats reads the log file and writes summary statistics to w.
func Stats(w io.Writer, path string, filter log.Filter) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return err
	}
	defer reader.Close()

	stats := fileStats{
		byLayer:    make(map[log.Layer]int),
		byCategory: make(map[log.Category]int),
		byDir:      make(map[log.Direction]int),
		sessions:   make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	stats.write(w)
	return nil
}

func (s *fileStats) add(event log.Event) {
	s.total++
	s.byLayer[event.Layer]++
	s.byCategory[event.Category]++
	s.byDir[event.Direction]++
	s.sessions[event.SessionID]++

	if event.Transfer != nil {
		switch event.Direction {
		case log.DirectionOut:
			s.bytesOut += event.Transfer.Size
		case log.DirectionIn:
			s.bytesIn += event.Transfer.Size
		}
	}
	if event.Category == log.CategoryError {
		s.errors++
	}

	if s.first.IsZero() || event.Timestamp.Before(s.first) {
		s.first = event.Timestamp
	}
	if event.Timestamp.After(s.last) {
		s.last = event.Timestamp
	}
}

func (s *fileStats) write(w io.Writer) {
	fmt.Fprintf(w, "Events: %d\n", s.total)
	if s.total == 0 {
		return
	}

	fmt.Fprintf(w, "Span:   %s\n", s.last.Sub(s.first))
	fmt.Fprintf(w, "Bytes:  %d out, %d in\n", s.bytesOut, s.bytesIn)
	fmt.Fprintf(w, "Errors: %d\n", s.errors)

	fmt.Fprintln(w, "\nBy layer:")
	for layer := log.LayerBus; layer <= log.LayerDevice; layer++ {
		if n := s.byLayer[layer]; n > 0 {
			fmt.Fprintf(w, "  %-8s %d\n", layer, n)
		}
	}

	fmt.Fprintln(w, "\nBy category:")
	for cat := log.CategoryTransfer; cat <= log.CategoryError; cat++ {
		if n := s.byCategory[cat]; n > 0 {
			fmt.Fprintf(w, "  %-8s %d\n", cat, n)
		}
	}

	fmt.Fprintln(w, "\nSessions:")
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		fmt.Fprintf(w, "  %s  %d events\n", shortenSessionID(id), s.sessions[id])
	}
}
