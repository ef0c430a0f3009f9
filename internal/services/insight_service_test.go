package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tabiq/internal/insights"
)

func TestInsightServiceGenerateFullReport(t *testing.T) {
	svc := NewInsightService(nil)

	report, err := svc.Generate(context.Background(), testTable(t), nil)
	require.NoError(t, err)
	assert.NotNil(t, report.SummaryStats)
	assert.NotNil(t, report.Outliers)
	assert.NotNil(t, report.MissingData)
	assert.Equal(t, 4, report.SummaryStats.Rows)
}

func TestInsightServiceGenerateSections(t *testing.T) {
	svc := NewInsightService(nil)

	report, err := svc.Generate(context.Background(), testTable(t), []string{SectionSummaryStats, SectionMissingData})
	require.NoError(t, err)
	assert.NotNil(t, report.SummaryStats)
	assert.NotNil(t, report.MissingData)
	assert.Nil(t, report.Outliers)
	assert.Nil(t, report.Anomalies)
	assert.Nil(t, report.Relationships)
	assert.Nil(t, report.Distributions)
}

func TestInsightServiceGenerateUnknownSection(t *testing.T) {
	svc := NewInsightService(nil)

	_, err := svc.Generate(context.Background(), testTable(t), []string{"bogus"})
	assert.ErrorContains(t, err, "unknown insight section")
}

func TestInsightServiceGenerateNilTable(t *testing.T) {
	svc := NewInsightService(nil)

	_, err := svc.Generate(context.Background(), nil, []string{SectionSummaryStats})
	assert.ErrorIs(t, err, insights.ErrNilTable)
}
