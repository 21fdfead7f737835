package models

import "testing"

func TestMetricsAppendCapsWindow(t *testing.T) {
	var m SessionMetrics

	for i := 1; i <= 15; i++ {
		m.Append(int64(i*1000), i*10)
	}

	if len(m.ResponseTimes) != MetricsWindowSize {
		t.Errorf("ResponseTimes length = %d, want %d", len(m.ResponseTimes), MetricsWindowSize)
	}
	if len(m.MessageLengths) != MetricsWindowSize {
		t.Errorf("MessageLengths length = %d, want %d", len(m.MessageLengths), MetricsWindowSize)
	}

	// Oldest evicted first: the window holds samples 6..15
	if m.ResponseTimes[0] != 6000 {
		t.Errorf("Oldest response time = %d, want 6000", m.ResponseTimes[0])
	}
	if m.ResponseTimes[MetricsWindowSize-1] != 15000 {
		t.Errorf("Newest response time = %d, want 15000", m.ResponseTimes[MetricsWindowSize-1])
	}
	if m.MessageLengths[MetricsWindowSize-1] != 150 {
		t.Errorf("Newest message length = %d, want 150", m.MessageLengths[MetricsWindowSize-1])
	}
}

func TestMetricsAverages(t *testing.T) {
	var m SessionMetrics
	m.Append(1000, 10)
	m.Append(3000, 30)

	if avg := m.AvgResponseTime(); avg != 2000 {
		t.Errorf("AvgResponseTime() = %v, want 2000", avg)
	}
	if avg := m.AvgMessageLength(); avg != 20 {
		t.Errorf("AvgMessageLength() = %v, want 20", avg)
	}
}

func TestMetricsAveragesEmpty(t *testing.T) {
	var m SessionMetrics

	if avg := m.AvgResponseTime(); avg != 0 {
		t.Errorf("AvgResponseTime() on empty window = %v, want 0", avg)
	}
	if avg := m.AvgMessageLength(); avg != 0 {
		t.Errorf("AvgMessageLength() on empty window = %v, want 0", avg)
	}
}
