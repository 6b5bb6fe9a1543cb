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

package service

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the replica configuration, read from the environment with an
// optional .env file.
type Config struct {
	SystemName  string `env:"SYSTEM_NAME" envDefault:"LocalReplica"`
	CallerPort  int    `env:"CALLER_PORT" envDefault:"8080"`
	LedgerPort  int    `env:"LEDGER_PORT" envDefault:"8081"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"9092"`
	TraceURL    string `env:"TRACE_URL" envDefault:"localhost:4317"`

	RemotingHost string `env:"REMOTING_HOST" envDefault:"127.0.0.1"`
	RemotingPort int    `env:"REMOTING_PORT" envDefault:"0"`

	// OwnerPrincipal gates icp_transfer. Empty means the backend
	// identity's own principal is the owner.
	OwnerPrincipal string `env:"OWNER_PRINCIPAL"`
	// BackendSeed pins the backend identity to a fixed principal.
	BackendSeed string `env:"BACKEND_SEED"`

	InitialBalanceE8s uint64 `env:"INITIAL_BALANCE_E8S" envDefault:"1000000000000"`
	TransferFeeE8s    uint64 `env:"TRANSFER_FEE_E8S" envDefault:"10000"`

	RequiredTools []string `env:"DEPLOY_REQUIRED_TOOLS" envSeparator:","`

	MemoryStore bool   `env:"MEMORY_STORE" envDefault:"true"`
	DBHost      string `env:"DB_HOST" envDefault:"localhost"`
	DBPort      int    `env:"DB_PORT" envDefault:"5432"`
	DBName      string `env:"DB_NAME" envDefault:"localic"`
	DBUser      string `env:"DB_USER" envDefault:"localic"`
	DBPassword  string `env:"DB_PASSWORD"`
}

// GetConfig returns the configuration.
func GetConfig() (*Config, error) {
	// A missing .env file is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
