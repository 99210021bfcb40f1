package avatar

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGravatarURL(t *testing.T) {
	svc := NewGravatarService()

	t.Run("derives md5 of the email", func(t *testing.T) {
		// md5("a@b.com") = 357a20e8c56e69d6f9734d23ef9517e8
		got := svc.GravatarURL("a@b.com", "140")
		require.Equal(t, "https://secure.gravatar.com/avatar/357a20e8c56e69d6f9734d23ef9517e8?s=140", got)
	})

	t.Run("normalizes case and whitespace", func(t *testing.T) {
		require.Equal(t,
			svc.GravatarURL("a@b.com", "140"),
			svc.GravatarURL("  A@B.Com ", "140"),
		)
	})

	t.Run("size token ends up in the query string", func(t *testing.T) {
		require.Equal(t, "https://secure.gravatar.com/avatar/9e26471d35a78862c17e467d87cddedf?s=48",
			svc.GravatarURL("jane@example.com", "48"))
	})
}
