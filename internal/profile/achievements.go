/*
 * Copyright (c) 2026 by the aiquiz authors.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package profile

// Achievement identifiers. Titles are resolved via AchievementTitle for display.
const (
	AchFirstRound  = "first_round"
	AchTenRounds   = "ten_rounds"
	AchPerfect     = "perfect_score"
	AchCentury     = "century"
	AchExplorer    = "explorer"
	AchSharpshoot  = "sharpshooter"
	centuryAnswers = 100
)

var achievementTitles = map[string]string{
	AchFirstRound: "First Steps — finish your first round",
	AchTenRounds:  "Regular — finish 10 rounds",
	AchPerfect:    "Flawless — score 100% in a round",
	AchCentury:    "Century — answer 100 questions",
	AchExplorer:   "Explorer — play 5 different domains",
	AchSharpshoot: "Sharpshooter — 3 perfect rounds",
}

// AchievementTitle returns a printable title for an achievement id.
func AchievementTitle(id string) string {
	if t, ok := achievementTitles[id]; ok {
		return t
	}
	return id
}

// EvaluateAchievements returns the achievement ids earned by the given stats.
// The result is the full earned set; callers diff against the profile.
func EvaluateAchievements(st Stats) []string {
	var out []string
	if st.Rounds >= 1 {
		out = append(out, AchFirstRound)
	}
	if st.Rounds >= 10 {
		out = append(out, AchTenRounds)
	}
	if st.PerfectRounds >= 1 {
		out = append(out, AchPerfect)
	}
	if st.PerfectRounds >= 3 {
		out = append(out, AchSharpshoot)
	}
	if st.Questions >= centuryAnswers {
		out = append(out, AchCentury)
	}
	if st.DistinctTopics >= 5 {
		out = append(out, AchExplorer)
	}
	return out
}
