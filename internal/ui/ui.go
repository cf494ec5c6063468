/*
 * Copyright (c) 2026 by the aiquiz authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package ui hosts the desktop interface. The Fyne implementation is gated
// behind the "fyne" build tag so CI remains headless; this file holds the
// parts shared by all build variants.
package ui

import (
	"fmt"
	"strings"

	"aiquiz/internal/config"
)

// Params carries everything the UI needs from the launcher.
type Params struct {
	Config   config.AppConfig
	APIKey   string
	Degraded bool // one or more startup checks failed; AI features may be off
}

// ValidateTheme checks a configured theme name. An empty name counts as
// "system".
func ValidateTheme(name string) error {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "system", "light", "dark":
		return nil
	}
	return fmt.Errorf("unknown theme %q (want system, light or dark)", name)
}

// HelpText is shown by the in-app help dialog.
const HelpText = `AI-Powered Quiz Application

First Time Setup:
1. Run: aiquizsetup
2. Enter your Gemini API key
3. Configure settings
4. Run: aiquiz

Get API Key:
Visit: https://makersuite.google.com/app/apikey

Features:
• Fresh AI questions every time
• 20+ domains to explore
• Personal progress tracking
• Achievement system

Need Help?
See README.md for detailed documentation`
