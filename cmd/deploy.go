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

package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tochemey/goakt/v4/log"

	"github.com/icx-labs/localic/deploy"
	"github.com/icx-labs/localic/domain"
	"github.com/icx-labs/localic/service"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Check prerequisites and print the provisioning plan without starting the replica",
	Run: func(cmd *cobra.Command, args []string) {
		logger := log.NewSlog(log.InfoLevel, os.Stdout)

		config, err := service.GetConfig()
		if err != nil {
			logger.Fatal(err)
			os.Exit(1)
		}

		tools := config.RequiredTools
		if len(tools) == 0 {
			tools = deploy.DefaultRequiredTools
		}
		if err := deploy.CheckPrerequisites(tools); err != nil {
			logger.Fatal(err)
			os.Exit(1)
		}

		planOpts := []deploy.PlanOption{
			deploy.WithInitialBalance(domain.TokensFromE8s(config.InitialBalanceE8s)),
			deploy.WithTransferFee(domain.TokensFromE8s(config.TransferFeeE8s)),
		}
		if config.BackendSeed != "" {
			planOpts = append(planOpts, deploy.WithBackendSeed(config.BackendSeed))
		}
		plan, err := deploy.NewPlan(planOpts...)
		if err != nil {
			logger.Fatal(err)
			os.Exit(1)
		}

		logger.Info("Prerequisites satisfied")
		logger.Infof("Minter principal: %s", plan.Minter.Principal())
		logger.Infof("Minting account: %s", plan.Minting)
		logger.Infof("Backend principal: %s", plan.Backend.Principal())
		logger.Infof("Backend account: %s (initial balance %s ICP)", plan.Recipient, domain.TokensFromE8s(config.InitialBalanceE8s))
		logger.Infof("Transfer fee: %d e8s", config.TransferFeeE8s)
	},
}

func init() {
	rootCmd.AddCommand(deployCmd)
}
