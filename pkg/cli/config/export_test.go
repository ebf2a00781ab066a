package config

import "time"

// NewMagentoForTest creates a Magento config for testing purposes
func NewMagentoForTest(deployment, storeURL, username, password, imsClientID, imsClientSecret string) *Magento {
	return &Magento{
		deployment:      deployment,
		storeURL:        storeURL,
		username:        username,
		password:        password,
		imsClientID:     imsClientID,
		imsClientSecret: imsClientSecret,
		timeout:         time.Minute,
	}
}

// NewVezaForTest creates a Veza config for testing purposes
func NewVezaForTest(url, apiKey string) *Veza {
	return &Veza{url: url, apiKey: apiKey}
}

// NewOutputForTest creates an Output config for testing purposes
func NewOutputForTest(dir string, retentionDays int, saveJSON bool) *Output {
	return &Output{dir: dir, retentionDays: retentionDays, saveJSON: saveJSON}
}

// NewRolesForTest creates a Roles config for testing purposes
func NewRolesForTest(strategy, mappingPath string) *Roles {
	return &Roles{strategy: strategy, mappingPath: mappingPath}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string, debug bool) *Logger {
	return &Logger{level: level, format: format, output: output, debug: debug}
}

func (x *Magento) TimeoutForTest() time.Duration { return x.timeout }
func (x *Output) RetentionDaysForTest() int      { return x.retentionDays }
func (x *Roles) StrategyForTest() string         { return x.strategy }
