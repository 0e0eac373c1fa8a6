package conversation

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/wolfman30/inkstudio-ai/internal/booking"
	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

func TestTruncateKeepsRunesWhole(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 200))

	// 199 ASCII bytes then a 3-byte rune straddling the limit.
	s := strings.Repeat("a", 199) + "墨" + "tail"
	got := truncate(s, 200)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", 199)+"...", got)

	s = strings.Repeat("é", 150)
	got = truncate(s, 200)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("é", 100)+"...", got)
}

func TestMessageReceivedLogsValidUTF8(t *testing.T) {
	var buf bytes.Buffer
	events := NewEventLogger(logging.NewWithWriter("info", &buf))

	events.MessageReceived(context.Background(), "c1", booking.StageNone, strings.Repeat("a", 199)+"墨墨", true)

	out := buf.String()
	assert.Contains(t, out, "message_received")
	assert.NotContains(t, out, "�")
	assert.NotContains(t, out, `\ufffd`)
}
