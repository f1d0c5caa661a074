package cmd

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/facetkit/facet/internal/errors"
)

func TestReportValidation_SummarizesTemplateError(t *testing.T) {
	err := reportValidation(ferrors.NewTemplateError("Button", []string{
		"more than one default template",
		"templates declared but no handler installed",
	}))
	require.Error(t, err)
	assert.Equal(t, "Button failed validation with 2 problem(s)", err.Error())
}

func TestReportValidation_PassesThroughOtherErrors(t *testing.T) {
	sentinel := fmt.Errorf("boom")
	assert.Same(t, sentinel, reportValidation(sentinel))
}
