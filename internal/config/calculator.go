package config

// CalculatorConfig configures the calc CLI.
type CalculatorConfig struct {
	// Name labels the calculator in logs and persisted history.
	Name string `yaml:"name"`
	// Persist stores every calculation in the history database.
	Persist   bool   `yaml:"persist"`
	HistoryDB string `yaml:"history_db"`
}
