package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisputeTracker_Lifecycle(t *testing.T) {
	tr := NewDisputeTracker()
	assert.Equal(t, NoDispute, tr.State(1))

	require.NoError(t, tr.Open(1, 7, d("2.5")))
	assert.Equal(t, DisputeOpen, tr.State(1))

	got, ok := tr.Get(1)
	require.True(t, ok)
	assert.Equal(t, uint16(7), got.ClientID)
	assert.True(t, d("2.5").Equal(got.Amount))

	require.NoError(t, tr.Resolve(1))
	assert.Equal(t, DisputeResolved, tr.State(1))
	assert.Equal(t, 1, tr.Len())
}

func TestDisputeTracker_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(*DisputeTracker)
		op      func(*DisputeTracker) error
		wantErr error
		want    DisputeState
	}{
		{
			name:    "resolve without dispute",
			setup:   func(*DisputeTracker) {},
			op:      func(tr *DisputeTracker) error { return tr.Resolve(1) },
			wantErr: ErrNotDisputed,
			want:    NoDispute,
		},
		{
			name:    "chargeback without dispute",
			setup:   func(*DisputeTracker) {},
			op:      func(tr *DisputeTracker) error { return tr.ChargeBack(1) },
			wantErr: ErrNotDisputed,
			want:    NoDispute,
		},
		{
			name:    "open twice",
			setup:   func(tr *DisputeTracker) { _ = tr.Open(1, 1, d("1")) },
			op:      func(tr *DisputeTracker) error { return tr.Open(1, 1, d("1")) },
			wantErr: ErrAlreadyDisputed,
			want:    DisputeOpen,
		},
		{
			name: "reopen after resolve",
			setup: func(tr *DisputeTracker) {
				_ = tr.Open(1, 1, d("1"))
				_ = tr.Resolve(1)
			},
			op:      func(tr *DisputeTracker) error { return tr.Open(1, 1, d("1")) },
			wantErr: ErrDisputeSettled,
			want:    DisputeResolved,
		},
		{
			name: "resolve after chargeback",
			setup: func(tr *DisputeTracker) {
				_ = tr.Open(1, 1, d("1"))
				_ = tr.ChargeBack(1)
			},
			op:      func(tr *DisputeTracker) error { return tr.Resolve(1) },
			wantErr: ErrDisputeSettled,
			want:    DisputeChargedBack,
		},
		{
			name: "chargeback twice",
			setup: func(tr *DisputeTracker) {
				_ = tr.Open(1, 1, d("1"))
				_ = tr.ChargeBack(1)
			},
			op:      func(tr *DisputeTracker) error { return tr.ChargeBack(1) },
			wantErr: ErrDisputeSettled,
			want:    DisputeChargedBack,
		},
		{
			name:  "chargeback open",
			setup: func(tr *DisputeTracker) { _ = tr.Open(1, 1, d("1")) },
			op:    func(tr *DisputeTracker) error { return tr.ChargeBack(1) },
			want:  DisputeChargedBack,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewDisputeTracker()
			tt.setup(tr)
			err := tt.op(tr)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, tr.State(1))
		})
	}
}

func TestDisputeState_IsSettled(t *testing.T) {
	assert.False(t, NoDispute.IsSettled())
	assert.False(t, DisputeOpen.IsSettled())
	assert.True(t, DisputeResolved.IsSettled())
	assert.True(t, DisputeChargedBack.IsSettled())
}
