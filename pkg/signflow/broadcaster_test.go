package signflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bithomp/xrpl-walletkit/pkg/nodeclient"
	"github.com/Bithomp/xrpl-walletkit/pkg/wallets"
	"github.com/Bithomp/xrpl-walletkit/pkg/xrpl"
)

type fakeSubmitSource struct {
	result *nodeclient.SubmitResult
	err    error
	calls  int
	blobs  []string
}

func (f *fakeSubmitSource) Submit(ctx context.Context, blob string) (*nodeclient.SubmitResult, error) {
	f.calls++
	f.blobs = append(f.blobs, blob)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func TestBroadcastAccepted(t *testing.T) {
	source := &fakeSubmitSource{
		result: &nodeclient.SubmitResult{Hash: "ABC123", EngineResult: "tesSUCCESS"},
	}
	broadcaster := NewBroadcaster(source, nil)

	hash, err := broadcaster.Broadcast(context.Background(), &xrpl.SignedPayload{Blob: "DEADBEEF"})

	require.NoError(t, err)
	assert.Equal(t, "ABC123", hash)
	assert.Equal(t, 1, source.calls)
	assert.Equal(t, []string{"DEADBEEF"}, source.blobs)
}

func TestBroadcastQueuedCountsAsAccepted(t *testing.T) {
	source := &fakeSubmitSource{
		result: &nodeclient.SubmitResult{Hash: "ABC123", EngineResult: "terQUEUED"},
	}
	broadcaster := NewBroadcaster(source, nil)

	hash, err := broadcaster.Broadcast(context.Background(), &xrpl.SignedPayload{Blob: "DEADBEEF"})

	require.NoError(t, err)
	assert.Equal(t, "ABC123", hash)
}

func TestBroadcastHashFallbacks(t *testing.T) {
	t.Run("payload hash wins when the service returns none", func(t *testing.T) {
		source := &fakeSubmitSource{
			result: &nodeclient.SubmitResult{EngineResult: "tesSUCCESS"},
		}
		broadcaster := NewBroadcaster(source, nil)

		hash, err := broadcaster.Broadcast(context.Background(), &xrpl.SignedPayload{Blob: "DEADBEEF", Hash: "FROMBACKEND"})
		require.NoError(t, err)
		assert.Equal(t, "FROMBACKEND", hash)
	})

	t.Run("hash is derived from the blob as a last resort", func(t *testing.T) {
		source := &fakeSubmitSource{
			result: &nodeclient.SubmitResult{EngineResult: "tesSUCCESS"},
		}
		broadcaster := NewBroadcaster(source, nil)

		hash, err := broadcaster.Broadcast(context.Background(), &xrpl.SignedPayload{Blob: "DEADBEEF"})
		require.NoError(t, err)

		expected, err := xrpl.TxHash("DEADBEEF")
		require.NoError(t, err)
		assert.Equal(t, expected, hash)
	})
}

func TestBroadcastEngineRejection(t *testing.T) {
	source := &fakeSubmitSource{
		result: &nodeclient.SubmitResult{EngineResult: "tecUNFUNDED_PAYMENT"},
	}
	broadcaster := NewBroadcaster(source, nil)

	_, err := broadcaster.Broadcast(context.Background(), &xrpl.SignedPayload{Blob: "DEADBEEF"})

	require.Error(t, err)
	var engineErr *wallets.EngineError
	require.ErrorAs(t, err, &engineErr)
	assert.Equal(t, "tecUNFUNDED_PAYMENT", engineErr.Code)
	assert.NotEmpty(t, engineErr.Message)

	// a rejected payload is never resubmitted
	assert.Equal(t, 1, source.calls)
}

func TestBroadcastTransportFailure(t *testing.T) {
	source := &fakeSubmitSource{err: errors.New("connection reset")}
	broadcaster := NewBroadcaster(source, nil)

	_, err := broadcaster.Broadcast(context.Background(), &xrpl.SignedPayload{Blob: "DEADBEEF"})

	require.Error(t, err)
	var transportErr *wallets.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.True(t, wallets.Recoverable(err))
}
