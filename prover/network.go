package prover

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/rs/zerolog"

	"github.com/zkpipe/fibonacci-prover/kernel"
)

// Wire contract of the prover web API (cmd web-api). Hex fields use the
// 0x-prefixed encoding throughout.

type SetupRequest struct {
	Program string `json:"program"`
}

type SetupResponse struct {
	VKey string `json:"vkey"`
}

type ProveRequest struct {
	N      uint32 `json:"n"`
	System string `json:"system"`
}

type ProveResponse struct {
	Proof        hexutil.Bytes `json:"proof"`
	Raw          hexutil.Bytes `json:"raw"`
	PublicValues hexutil.Bytes `json:"publicValues"`
	VKey         string        `json:"vkey"`
}

type VerifyRequest struct {
	System       string        `json:"system"`
	Raw          hexutil.Bytes `json:"raw"`
	PublicValues hexutil.Bytes `json:"publicValues"`
	VKey         string        `json:"vkey"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// networkBackend delegates setup, proving and verification to a remote
// prover service speaking the web-api contract. The dry run stays local;
// it exists precisely to avoid paying for the remote call on bad input.
type networkBackend struct {
	endpoint string
	client   *http.Client
	logger   zerolog.Logger
}

func NewNetworkBackend(endpoint string, logger zerolog.Logger) Backend {
	return &networkBackend{
		endpoint: endpoint,
		// No client timeout: remote proving can take minutes to hours.
		// Cancellation comes from the request context.
		client: &http.Client{},
		logger: logger,
	}
}

func (b *networkBackend) Setup(ctx context.Context, program kernel.Program) (VerificationKey, error) {
	var resp SetupResponse
	if err := b.post(ctx, "/setup", SetupRequest{Program: program.Name}, &resp); err != nil {
		return VerificationKey{}, fmt.Errorf("remote setup failed: %w", err)
	}
	return ParseVerificationKey(resp.VKey)
}

func (b *networkBackend) Execute(program kernel.Program, n uint32) (*kernel.Output, *ExecutionReport, error) {
	out, err := kernel.Run(n)
	if err != nil {
		return nil, nil, err
	}
	return out, reportFor(out), nil
}

func (b *networkBackend) Prove(ctx context.Context, program kernel.Program, n uint32, system ProofSystem) (*Proof, error) {
	b.logger.Info().
		Str("endpoint", b.endpoint).
		Str("system", system.String()).
		Msg("requesting proof from remote prover; this may take a while")

	var resp ProveResponse
	if err := b.post(ctx, "/proof", ProveRequest{N: n, System: system.String()}, &resp); err != nil {
		return nil, &ProvingError{System: system, N: n, Err: err}
	}
	return &Proof{
		System:       system,
		Bytes:        resp.Proof,
		Raw:          resp.Raw,
		PublicValues: resp.PublicValues,
	}, nil
}

func (b *networkBackend) Verify(proof *Proof, vkey VerificationKey) error {
	req := VerifyRequest{
		System:       proof.System.String(),
		Raw:          proof.Raw,
		PublicValues: proof.PublicValues,
		VKey:         vkey.String(),
	}
	if err := b.post(context.Background(), "/verify", req, nil); err != nil {
		return fmt.Errorf("remote verification failed: %w", err)
	}
	return nil
}

func (b *networkBackend) post(ctx context.Context, path string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var apiErr errorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("prover service: %s", apiErr.Error)
		}
		return fmt.Errorf("prover service returned status %d", resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// ParseVerificationKey decodes the 0x-prefixed hex form used on the
// wire and in verification_key.txt.
func ParseVerificationKey(s string) (VerificationKey, error) {
	raw, err := hexutil.Decode(s)
	if err != nil {
		return VerificationKey{}, fmt.Errorf("malformed verification key %q: %w", s, err)
	}
	if len(raw) != len(VerificationKey{}) {
		return VerificationKey{}, fmt.Errorf("verification key must be %d bytes, got %d", len(VerificationKey{}), len(raw))
	}
	var vkey VerificationKey
	copy(vkey[:], raw)
	return vkey, nil
}
