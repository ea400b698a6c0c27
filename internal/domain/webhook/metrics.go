package webhook

type nopMetrics struct{}

func (nopMetrics) RecordEvent(string, string)      {}
func (nopMetrics) RecordLedgerWrite(string)        {}
func (nopMetrics) RecordSideEffect(string, string) {}
