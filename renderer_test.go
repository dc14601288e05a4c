package cmdspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRenderer(t *testing.T) {
	sub := newTestSpec(t, WithAliases("b"), WithUsageMessage("build things"))
	cmd := newTestSpec(t,
		WithName("tool"),
		WithOption(WithNames("-o", "--output"), WithArity("1"), WithDescription("output file"), SetRequired(true)),
		WithOption(WithNames("--level"), WithTypeOf[int](), WithDefaultValue("3")),
		WithOption(WithNames("--secret"), SetHidden(true)),
		WithPositional(WithIndex("0..*"), WithParamLabel("<files>")),
		WithSubcommand("build", sub),
	)
	r := NewRenderer()

	assert.Equal(t, `-o, --output <output> "output file" (required)`, r.OptionUsage(cmd.FindOption("output")))
	assert.Equal(t, "--level <level> (defaults to: 3) (optional)", r.OptionUsage(cmd.FindOption("level")))
	assert.Equal(t, "<files>[0..*] (optional)", r.PositionalUsage(cmd.Positionals()[0]))
	assert.Equal(t, `tool build (b) "build things"`, r.CommandUsage(sub))

	usage := Usage(r, cmd)
	require.NotEmpty(t, usage)
	assert.Contains(t, usage, "--output")
	assert.Contains(t, usage, "tool build")
	assert.NotContains(t, usage, "--secret", "hidden options should not be listed")
}
