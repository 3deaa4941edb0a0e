package prover

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkpipe/fibonacci-prover/kernel"
)

// fakeProverService answers the web-api contract with mock-backend
// proofs, standing in for a remote prover.
func fakeProverService(t *testing.T) *httptest.Server {
	t.Helper()
	backend := NewMockBackend(testLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("/setup", func(w http.ResponseWriter, r *http.Request) {
		vkey, err := backend.Setup(r.Context(), kernel.Fibonacci)
		require.NoError(t, err)
		json.NewEncoder(w).Encode(SetupResponse{VKey: vkey.String()})
	})
	mux.HandleFunc("/proof", func(w http.ResponseWriter, r *http.Request) {
		var req ProveRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		system, err := ParseProofSystem(req.System)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
			return
		}
		vkey, err := backend.Setup(r.Context(), kernel.Fibonacci)
		require.NoError(t, err)
		proof, err := backend.Prove(r.Context(), kernel.Fibonacci, req.N, system)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
			return
		}
		json.NewEncoder(w).Encode(ProveResponse{
			Proof:        proof.Bytes,
			Raw:          proof.Raw,
			PublicValues: proof.PublicValues,
			VKey:         vkey.String(),
		})
	})
	mux.HandleFunc("/verify", func(w http.ResponseWriter, r *http.Request) {
		var req VerifyRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		system, err := ParseProofSystem(req.System)
		require.NoError(t, err)
		vkey, err := ParseVerificationKey(req.VKey)
		require.NoError(t, err)
		proof := &Proof{System: system, Bytes: req.Raw, Raw: req.Raw, PublicValues: req.PublicValues}
		if err := backend.Verify(proof, vkey); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(errorResponse{Error: err.Error()})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestNetworkBackendRoundTrip(t *testing.T) {
	server := fakeProverService(t)
	backend := NewNetworkBackend(server.URL, testLogger())
	ctx := context.Background()

	vkey, err := backend.Setup(ctx, kernel.Fibonacci)
	require.NoError(t, err)

	proof, err := backend.Prove(ctx, kernel.Fibonacci, 10, Groth16)
	require.NoError(t, err)

	decoded, err := kernel.DecodePublicValues(proof.PublicValues)
	require.NoError(t, err)
	assert.Equal(t, kernel.Result{N: 10, A: 55, B: 89}, decoded)

	assert.NoError(t, backend.Verify(proof, vkey))
}

func TestNetworkBackendSurfacesServiceErrors(t *testing.T) {
	server := fakeProverService(t)
	backend := NewNetworkBackend(server.URL, testLogger())

	_, err := backend.Prove(context.Background(), kernel.Fibonacci, kernel.MaxInput+1, Groth16)

	var provingErr *ProvingError
	require.ErrorAs(t, err, &provingErr)
	assert.Equal(t, uint32(kernel.MaxInput+1), provingErr.N)
}

func TestNetworkBackendClassifiesUnreachableService(t *testing.T) {
	backend := NewNetworkBackend("http://127.0.0.1:1", testLogger())

	_, err := backend.Prove(context.Background(), kernel.Fibonacci, 10, Groth16)

	var provingErr *ProvingError
	assert.ErrorAs(t, err, &provingErr)
}

func TestNetworkBackendLocalDryRun(t *testing.T) {
	backend := NewNetworkBackend("http://127.0.0.1:1", testLogger())

	// The dry run never touches the network.
	out, report, err := backend.Execute(kernel.Fibonacci, 10)
	require.NoError(t, err)
	assert.Equal(t, kernel.Result{N: 10, A: 55, B: 89}, out.Result)
	assert.NotZero(t, report.TotalInstructions)
}
