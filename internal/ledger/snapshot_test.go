package ledger

import (
	"testing"

	"github.com/dvloznov/payments-engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireSnapshotsEqual(t *testing.T, want, got []AccountSnapshot) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		require.True(t, want[i].Equal(got[i]), "row %d: want %+v, got %+v", i, want[i], got[i])
	}
}

func TestSnapshot_RoundsToFourPlaces(t *testing.T) {
	l := New()
	require.NoError(t, l.Apply(deposit(1, 1, "1.88889")))

	snaps := l.Snapshot()
	require.Len(t, snaps, 1)
	assert.Equal(t, "1.8889", snaps[0].Available.StringFixed(domain.AmountScale))
	assert.Equal(t, "0.0000", snaps[0].Held.StringFixed(domain.AmountScale))
	assert.Equal(t, "1.8889", snaps[0].Total.StringFixed(domain.AmountScale))
}

func TestSnapshot_Deterministic(t *testing.T) {
	build := func() *Ledger {
		l := New()
		replay(l,
			deposit(4, 1, "1.5"),
			deposit(2, 2, "2.25"),
			deposit(9, 3, "0.1"),
			domain.NewDispute(2, 2),
			withdrawal(4, 4, "0.5"),
		)
		return l
	}

	a, b := build().Snapshot(), build().Snapshot()
	requireSnapshotsEqual(t, a, b)
	assert.Equal(t, uint16(2), a[0].ClientID)
	assert.Equal(t, uint16(4), a[1].ClientID)
	assert.Equal(t, uint16(9), a[2].ClientID)
}

func TestRestore_RoundTrip(t *testing.T) {
	l := New()
	replay(l,
		deposit(1, 1, "10.1234"),
		deposit(1, 2, "3.0"),
		domain.NewDispute(1, 2),
		deposit(2, 3, "7.0"),
		domain.NewDispute(2, 3),
		domain.NewChargeback(2, 3),
		deposit(3, 4, "0.0001"),
	)
	snaps := l.Snapshot()

	restored, err := Restore(snaps)
	require.NoError(t, err)
	requireSnapshotsEqual(t, snaps, restored.Snapshot())

	acc, ok := restored.Account(2)
	require.True(t, ok)
	assert.True(t, acc.IsFrozen())
}

func TestRestore_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		snaps []AccountSnapshot
	}{
		{
			name:  "total mismatch",
			snaps: []AccountSnapshot{{ClientID: 1, Available: d("1"), Held: d("1"), Total: d("3")}},
		},
		{
			name:  "negative available",
			snaps: []AccountSnapshot{{ClientID: 1, Available: d("-1"), Held: d("1"), Total: d("0")}},
		},
		{
			name: "duplicate client",
			snaps: []AccountSnapshot{
				{ClientID: 1, Available: d("1"), Held: d("0"), Total: d("1")},
				{ClientID: 1, Available: d("1"), Held: d("0"), Total: d("1")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Restore(tt.snaps)
			require.Error(t, err)
		})
	}
}

func TestReason(t *testing.T) {
	l := New()
	assert.Equal(t, "", Reason(l.Apply(deposit(1, 1, "1"))))
	assert.Equal(t, "duplicate_transaction", Reason(l.Apply(deposit(1, 1, "1"))))
	assert.Equal(t, "unknown_transaction", Reason(l.Apply(domain.NewDispute(1, 99))))
	assert.Equal(t, "client_mismatch", Reason(l.Apply(domain.NewDispute(2, 1))))
	assert.Equal(t, "not_disputed", Reason(l.Apply(domain.NewResolve(1, 1))))
	assert.Equal(t, "insufficient_funds", Reason(l.Apply(withdrawal(1, 2, "5"))))
}
