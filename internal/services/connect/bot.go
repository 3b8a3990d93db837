package connect

import (
	"fmt"
	"strings"

	"github.com/LeonardoBeccarini/kisan_yatra/internal/model/entities"
)

const BotName = "KisanYatra Bot"

var seasonCrops = map[string][]string{
	"kharif": {"Rice", "Maize", "Cotton", "Millets", "Soybean"},
	"rabi":   {"Wheat", "Pulses (Lentils)", "Potato", "Mustard"},
	"zaid":   {"Maize", "Vegetables", "Pulses (Lentils)"},
}

var defaultSeasonCrops = []string{"Rice", "Maize"}

var cropTips = map[string]string{
	"Rice":             "Transplant healthy seedlings; maintain shallow water early 🌾",
	"Maize":            "Ensure good P at sowing; watch for fall armyworm 🌽",
	"Pulses (Lentils)": "Avoid waterlogging; inoculate seeds with Rhizobium 🫘",
	"Millets":          "Great drought tolerance; minimal irrigation needed 🌾",
	"Soybean":          "Well-drained soil; critical water at pod-fill 🫘",
	"Cotton":           "High K need during boll development 🧱",
	"Wheat":            "Irrigate at CRI and grain fill; avoid lodging 🌾",
	"Potato":           "High K; hill soil to cover tubers 🥔",
	"Mustard":          "Avoid late sowing to escape high temp at flowering 🌼",
	"Vegetables":       "Short-duration; plan staggered sowing 🥦",
}

func greeting(hour int) string {
	switch {
	case hour < 12:
		return "Good morning 👋"
	case hour < 18:
		return "Good afternoon 👋"
	default:
		return "Good evening 👋"
	}
}

// BotText builds the season suggestion posted on a board.
// Unknown seasons fall back to Rice and Maize.
func BotText(season, state string, hour int) string {
	picks, ok := seasonCrops[strings.ToLower(season)]
	if !ok {
		picks = defaultSeasonCrops
	}
	top := picks[:2]

	reasons := make([]string, 0, len(top))
	for _, c := range top {
		tip, ok := cropTips[c]
		if !ok {
			tip = "Suitable for the season."
		}
		reasons = append(reasons, fmt.Sprintf("• %s: %s", c, tip))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Farmer!\n", greeting(hour))
	fmt.Fprintf(&b, "Season: %s • State: %s\n", strings.ToUpper(season), strings.ToLower(state))
	fmt.Fprintf(&b, "Suggested crops: %s\n", strings.Join(top, ", "))
	fmt.Fprintf(&b, "Why these crops:\n%s\n", strings.Join(reasons, "\n"))
	b.WriteString("Would you like tips for fertilizer schedule or irrigation planning next? 💬")
	return b.String()
}

// Bot posts the season suggestion on a board on behalf of the caller.
func (s *Service) Bot(userID, state, season string) (entities.ConnectMessage, error) {
	if strings.TrimSpace(state) == "" {
		return entities.ConnectMessage{}, ErrNoState
	}
	msg := s.messages.Insert(entities.ConnectMessage{
		UserID:   userID,
		State:    state,
		Text:     BotText(season, state, s.now().Hour()),
		UserName: BotName,
	})
	s.publish(msg, true)
	return msg, nil
}
