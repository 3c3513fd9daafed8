package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSigner_SignAndVerify(t *testing.T) {
	signer := NewSigner("secret")
	ev := Event{
		ID:          "e1",
		Timestamp:   time.Date(2026, 3, 4, 5, 6, 7, 8, time.UTC),
		Tool:        "itglue_delete_passwords",
		Resource:    "passwords",
		Action:      ActionDelete,
		ResourceIDs: []string{"1", "2"},
		Outcome:     OutcomeSuccess,
	}

	ev.Signature = signer.Sign(ev)

	assert.Len(t, ev.Signature, 64)
	assert.True(t, signer.Verify(ev))
	assert.False(t, NewSigner("other").Verify(ev))

	tampered := ev
	tampered.ResourceIDs = []string{"1"}
	assert.False(t, signer.Verify(tampered))
}

func TestSigner_Deterministic(t *testing.T) {
	signer := NewSigner("secret")
	ev := Event{ID: "e1", Tool: "t", Outcome: OutcomeFailure, Error: "boom"}

	assert.Equal(t, signer.Sign(ev), signer.Sign(ev))

	ev.Signature = "ignored"
	withSig := signer.Sign(ev)
	ev.Signature = ""
	assert.Equal(t, signer.Sign(ev), withSig)
}

func TestRecorder_SignsEvents(t *testing.T) {
	pub := &fakePublisher{}
	signer := NewSigner("secret")
	rec := NewRecorder(pub, "itglue.audit", nil).WithSigner(signer)

	rec.Record(context.Background(), Event{Tool: "itglue_create_organization", Resource: "organizations", Action: ActionCreate, Outcome: OutcomeSuccess})

	require.Len(t, pub.msgs, 1)
	var ev Event
	require.NoError(t, json.Unmarshal(pub.msgs[0].data, &ev))
	assert.NotEmpty(t, ev.Signature)
	assert.True(t, signer.Verify(ev))
}
