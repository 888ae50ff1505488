package main

import (
	"fmt"
	"os"

	"github.com/dvloznov/payments-engine/internal/csvio"
	"github.com/dvloznov/payments-engine/internal/domain"
	"github.com/dvloznov/payments-engine/internal/ledger"
)

// snapshotDiff describes one client whose rows differ between two outputs.
// A nil side means the client is missing from that output.
type snapshotDiff struct {
	ClientID uint16
	Left     *ledger.AccountSnapshot
	Right    *ledger.AccountSnapshot
}

func (d snapshotDiff) String() string {
	return fmt.Sprintf("client %d: %s -> %s", d.ClientID, describe(d.Left), describe(d.Right))
}

func describe(s *ledger.AccountSnapshot) string {
	if s == nil {
		return "<missing>"
	}
	return fmt.Sprintf("available=%s held=%s total=%s locked=%t",
		s.Available.StringFixed(domain.AmountScale),
		s.Held.StringFixed(domain.AmountScale),
		s.Total.StringFixed(domain.AmountScale),
		s.Locked)
}

// diffSnapshots compares two snapshots by client id. Both inputs must be
// sorted by client id, as Ledger.Snapshot and Writer produce them.
func diffSnapshots(left, right []ledger.AccountSnapshot) []snapshotDiff {
	var diffs []snapshotDiff
	i, j := 0, 0
	for i < len(left) || j < len(right) {
		switch {
		case j >= len(right) || (i < len(left) && left[i].ClientID < right[j].ClientID):
			diffs = append(diffs, snapshotDiff{ClientID: left[i].ClientID, Left: &left[i]})
			i++
		case i >= len(left) || right[j].ClientID < left[i].ClientID:
			diffs = append(diffs, snapshotDiff{ClientID: right[j].ClientID, Right: &right[j]})
			j++
		default:
			if !left[i].Equal(right[j]) {
				diffs = append(diffs, snapshotDiff{ClientID: left[i].ClientID, Left: &left[i], Right: &right[j]})
			}
			i++
			j++
		}
	}
	return diffs
}

func readSnapshotFile(path string) ([]ledger.AccountSnapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("readSnapshotFile: %w", err)
	}
	defer f.Close()

	snaps, err := csvio.ReadSnapshots(f)
	if err != nil {
		return nil, fmt.Errorf("readSnapshotFile %s: %w", path, err)
	}
	return snaps, nil
}
