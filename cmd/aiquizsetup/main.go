/*
 * Copyright (c) 2026 by the aiquiz authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Command aiquizsetup stores the Google Gemini API key in the OS keyring so
// the quiz application can find it at startup.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"aiquiz/internal/config"
	"aiquiz/internal/gemini"
	applog "aiquiz/internal/log"
)

func main() {
	applog.Init(applog.FromEnv())

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "delete", "--delete":
			if err := config.DeleteAPIKey(); err != nil {
				fmt.Println("Could not remove the stored key:", err)
				os.Exit(1)
			}
			fmt.Println("Stored Gemini API key removed.")
			return
		case "status", "--status":
			if config.IsAPIKeyConfigured() {
				fmt.Println("A Gemini API key is configured.")
			} else {
				fmt.Println("No Gemini API key is configured.")
			}
			return
		default:
			fmt.Println("Usage: aiquizsetup [delete|status]")
			os.Exit(2)
		}
	}

	fmt.Println("=== Gemini API Setup ===")
	fmt.Println()
	fmt.Println("Get a free API key at: https://makersuite.google.com/app/apikey")
	fmt.Println()
	fmt.Print("Enter your Gemini API key: ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		fmt.Println("\nNo input; nothing stored.")
		os.Exit(1)
	}
	key := strings.TrimSpace(line)
	if key == "" {
		fmt.Println("Empty key; nothing stored.")
		os.Exit(1)
	}

	cfg, _, _ := config.Load()
	client := gemini.NewClient(gemini.Options{
		Endpoint: cfg.Gemini.Endpoint,
		Model:    cfg.Gemini.Model,
		APIKey:   key,
		Timeout:  time.Duration(cfg.Gemini.TimeoutMs) * time.Millisecond,
	})
	fmt.Print("Verifying key with Gemini... ")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	err = client.TestConnection(ctx)
	cancel()
	if err != nil {
		fmt.Println("failed:", err)
		fmt.Print("Store the key anyway? (y/n): ")
		answer, _ := reader.ReadString('\n')
		answer = strings.ToLower(strings.TrimSpace(answer))
		if answer != "y" && answer != "yes" {
			fmt.Println("Key not stored.")
			os.Exit(1)
		}
	} else {
		fmt.Println("OK")
	}

	if err := config.SetAPIKey(key); err != nil {
		fmt.Println("Could not store the key:", err)
		os.Exit(1)
	}
	fmt.Println("Gemini API key stored in the OS keyring.")
	fmt.Println("Run 'aiquiz' to start the application.")
}
