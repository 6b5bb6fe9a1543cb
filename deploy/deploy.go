// MIT License
//
// Copyright (c) 2025-2026 icx-labs
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package deploy provisions the local replica: it probes the external tools
// the environment needs, mints the service identities and builds the ledger
// install arguments, then spawns the canisters.
package deploy

import (
	"context"
	"encoding/hex"
	"fmt"
	"os/exec"

	"github.com/pkg/errors"
	"github.com/tochemey/goakt/v4/actor"

	"github.com/icx-labs/localic/canisters"
	"github.com/icx-labs/localic/domain"
	"github.com/icx-labs/localic/ledger"
)

// DefaultInitialBalance is credited to the recipient account at install.
const DefaultInitialBalance = domain.Tokens(1_000_000_000_000)

// DefaultRequiredTools are the external tools the local environment needs:
// the container runtime hosting postgres and its client.
var DefaultRequiredTools = []string{"docker", "psql"}

var toolGuidance = map[string]string{
	"docker": "install the docker engine from https://docs.docker.com/engine/install/",
	"psql":   "install the postgresql client tools for your platform",
}

// MissingToolError reports a required external tool absent from PATH.
type MissingToolError struct {
	Tool     string
	Guidance string
}

func (e *MissingToolError) Error() string {
	if e.Guidance == "" {
		return fmt.Sprintf("required tool %q was not found on PATH", e.Tool)
	}
	return fmt.Sprintf("required tool %q was not found on PATH; %s", e.Tool, e.Guidance)
}

// CheckPrerequisites resolves every required tool on PATH and fails on the
// first one missing. Nothing else may be started before this passes.
func CheckPrerequisites(tools []string) error {
	for _, tool := range tools {
		if _, err := exec.LookPath(tool); err != nil {
			return &MissingToolError{Tool: tool, Guidance: toolGuidance[tool]}
		}
	}
	return nil
}

// Plan holds the provisioned identities and the ledger install arguments.
type Plan struct {
	Minter    *domain.Identity
	Backend   *domain.Identity
	Minting   domain.AccountIdentifier
	Recipient domain.AccountIdentifier
	Install   ledger.InstallArgs
}

// PlanOption customizes a provisioning plan.
type PlanOption func(*planConfig)

type planConfig struct {
	backendSeed    []byte
	initialBalance domain.Tokens
	transferFee    domain.Tokens
	err            error
}

// WithBackendSeed pins the backend identity to a fixed 32-byte hex seed, so
// its principal stays stable across environments. A malformed seed fails the
// plan; a silently random principal would defeat the pinning.
func WithBackendSeed(seedHex string) PlanOption {
	return func(c *planConfig) {
		seed, err := hex.DecodeString(seedHex)
		if err != nil {
			c.err = errors.Wrap(err, "decoding the backend seed")
			return
		}
		c.backendSeed = seed
	}
}

// WithInitialBalance overrides the initial recipient balance.
func WithInitialBalance(amount domain.Tokens) PlanOption {
	return func(c *planConfig) { c.initialBalance = amount }
}

// WithTransferFee overrides the ledger transfer fee.
func WithTransferFee(fee domain.Tokens) PlanOption {
	return func(c *planConfig) { c.transferFee = fee }
}

// NewPlan mints the minter and backend identities and derives the ledger
// install arguments: the minter's account mints, the backend's account is
// credited the initial balance.
func NewPlan(opts ...PlanOption) (*Plan, error) {
	cfg := &planConfig{
		initialBalance: DefaultInitialBalance,
		transferFee:    ledger.DefaultTransferFee,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}

	minter, err := domain.NewIdentity("minter")
	if err != nil {
		return nil, errors.Wrap(err, "provisioning the minter identity")
	}

	var backend *domain.Identity
	if cfg.backendSeed != nil {
		backend, err = domain.IdentityFromSeed("backend", cfg.backendSeed)
	} else {
		backend, err = domain.NewIdentity("backend")
	}
	if err != nil {
		return nil, errors.Wrap(err, "provisioning the backend identity")
	}

	minting := domain.DefaultAccount(minter.Principal())
	recipient := domain.DefaultAccount(backend.Principal())
	return &Plan{
		Minter:    minter,
		Backend:   backend,
		Minting:   minting,
		Recipient: recipient,
		Install: ledger.InstallArgs{
			MintingAccount: minting,
			InitialBalances: map[domain.AccountIdentifier]domain.Tokens{
				recipient: cfg.initialBalance,
			},
			TransferFee: cfg.transferFee,
		},
	}, nil
}

// Canisters are the actors a provisioned replica runs.
type Canisters struct {
	Signer *canisters.Signer
}

// Provision spawns the counter, ledger, signer and rates canisters on the
// actor system. The state store extension must already be registered.
func Provision(ctx context.Context, system actor.ActorSystem, plan *Plan, rates map[string]uint64) (*Canisters, error) {
	if _, err := system.Spawn(ctx, canisters.CounterName, canisters.NewCounter(), actor.WithLongLived()); err != nil {
		return nil, errors.Wrap(err, "spawning the counter canister")
	}

	if _, err := system.Spawn(ctx, canisters.LedgerName, canisters.NewLedger(plan.Install), actor.WithLongLived()); err != nil {
		return nil, errors.Wrap(err, "spawning the ledger canister")
	}

	signer, err := canisters.NewSigner()
	if err != nil {
		return nil, err
	}
	if _, err := system.Spawn(ctx, canisters.SignerName, signer, actor.WithLongLived()); err != nil {
		return nil, errors.Wrap(err, "spawning the signer canister")
	}

	if _, err := system.Spawn(ctx, canisters.RatesName, canisters.NewRates(rates), actor.WithLongLived()); err != nil {
		return nil, errors.Wrap(err, "spawning the rates canister")
	}
	return &Canisters{Signer: signer}, nil
}
