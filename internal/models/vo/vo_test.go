package vo_test

import (
	"strings"
	"suru/internal/errs"
	"suru/internal/models/vo"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		rule    errs.Rule
		message string
	}{
		{name: "valid lower case", raw: "3f2504e0-4f89-41d3-9a0c-0305e82c3301"},
		{name: "valid upper case", raw: "3F2504E0-4F89-41D3-9A0C-0305E82C3301"},
		{name: "empty", raw: "", rule: errs.RuleRequired, message: "Task ID is required"},
		{name: "version 1", raw: "3f2504e0-4f89-11d3-9a0c-0305e82c3301", rule: errs.RuleFormat, message: "Invalid UUID format: 3f2504e0-4f89-11d3-9a0c-0305e82c3301"},
		{name: "wrong variant", raw: "3f2504e0-4f89-41d3-7a0c-0305e82c3301", rule: errs.RuleFormat},
		{name: "braces", raw: "{3f2504e0-4f89-41d3-9a0c-0305e82c3301}", rule: errs.RuleFormat},
		{name: "garbage", raw: "U1", rule: errs.RuleFormat, message: "Invalid UUID format: U1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := vo.ParseID("Task ID", tt.raw)
			if tt.rule == "" {
				require.NoError(t, err)
				assert.Equal(t, strings.ToLower(tt.raw), id.String())
				return
			}

			require.Error(t, err)
			var e *errs.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, errs.KindValidation, e.Kind)
			assert.Equal(t, tt.rule, e.Rule())
			assert.Equal(t, "Task ID", e.Field())
			if tt.message != "" {
				assert.Equal(t, tt.message, e.Message)
			}
		})
	}
}

func TestParseOptionalID(t *testing.T) {
	id, err := vo.ParseOptionalID("Parent task ID", "")
	require.NoError(t, err)
	assert.Nil(t, id)

	id, err = vo.ParseOptionalID("Parent task ID", vo.NewID().String())
	require.NoError(t, err)
	assert.NotNil(t, id)

	_, err = vo.ParseOptionalID("Parent task ID", "nope")
	assert.True(t, errs.Is(err, errs.KindValidation))
}

func TestNewID_IsVersion4(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.True(t, vo.IsValidID(vo.NewID().String()))
	}
}

func TestBoundedText(t *testing.T) {
	value, err := vo.BoundedText("Team name", "  Platform  ", 1, 100)
	require.NoError(t, err)
	assert.Equal(t, "Platform", value)

	_, err = vo.BoundedText("Team name", "   ", 1, 100)
	require.Error(t, err)
	assert.Equal(t, "Team name is required", errs.MessageOf(err))

	_, err = vo.BoundedText("Team name", strings.Repeat("a", 101), 1, 100)
	require.Error(t, err)
	assert.Equal(t, "Team name must be between 1 and 100 characters", errs.MessageOf(err))

	// длина считается в символах, а не в байтах
	value, err = vo.BoundedText("Team name", strings.Repeat("я", 100), 1, 100)
	require.NoError(t, err)
	assert.Len(t, []rune(value), 100)
}

func TestRequiredRef(t *testing.T) {
	value, err := vo.RequiredRef("Created by", " U1 ")
	require.NoError(t, err)
	assert.Equal(t, "U1", value)

	_, err = vo.RequiredRef("Created by", "")
	assert.Equal(t, "Created by is required", errs.MessageOf(err))
}

func TestOptionalText(t *testing.T) {
	assert.Nil(t, vo.OptionalText(nil))

	blank := "   "
	assert.Nil(t, vo.OptionalText(&blank))

	text := " notes "
	got := vo.OptionalText(&text)
	require.NotNil(t, got)
	assert.Equal(t, "notes", *got)
}
