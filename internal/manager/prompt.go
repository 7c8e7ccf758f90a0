package manager

import (
	"strings"

	"chatd/pkg/types"
)

// Chat template markers (ChatML).
const (
	turnStart = "<|im_start|>"
	turnEnd   = "<|im_end|>"
)

// DefaultStop is used when a request carries no stop sequences.
var DefaultStop = []string{turnEnd, turnStart}

// BuildPrompt renders messages in order using the chat template and ends with
// an open assistant turn. Messages with unknown roles are skipped.
func BuildPrompt(msgs []types.Message) string {
	var b strings.Builder
	for _, msg := range msgs {
		if !msg.Role.Known() {
			continue
		}
		b.WriteString(turnStart)
		b.WriteString(string(msg.Role))
		b.WriteByte('\n')
		b.WriteString(msg.Content)
		b.WriteString(turnEnd)
		b.WriteByte('\n')
	}
	b.WriteString(turnStart)
	b.WriteString(string(types.RoleAssistant))
	b.WriteByte('\n')
	return b.String()
}

// unknownRoles counts messages BuildPrompt would skip.
func unknownRoles(msgs []types.Message) int {
	n := 0
	for _, msg := range msgs {
		if !msg.Role.Known() {
			n++
		}
	}
	return n
}
