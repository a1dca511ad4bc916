// Copyright 2025 GreenScan Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ecolens/greenscan/pkg/config"
)

func newEncryptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt <value>",
		Short: "Encrypt a secret for use in the configuration file",
		Long: `Encrypt a secret with AES-GCM using the key in GREENSCAN_ENCRYPTION_KEY
and print it in the ENC(...) form accepted by secret configuration fields
such as ai.api_key and store.password.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encrypted, err := config.EncryptValue(args[0])
			if err != nil {
				return err
			}
			cmd.Printf("ENC(%s)\n", encrypted)
			return nil
		},
	}
}
