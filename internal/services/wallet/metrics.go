package wallet

// MetricsCollector receives operational measurements from the balance
// manager. Pass nil to NewService for a no-op collector.
type MetricsCollector interface {
	RecordTransaction(transactionType string, amount int64)
	RecordBalanceChange(walletID uint, oldBalance, newBalance int64)
	RecordError(operation, errType string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (n *NoopMetricsCollector) RecordTransaction(string, int64)      {}
func (n *NoopMetricsCollector) RecordBalanceChange(uint, int64, int64) {}
func (n *NoopMetricsCollector) RecordError(string, string)           {}
