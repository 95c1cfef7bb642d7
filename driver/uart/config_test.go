package uart

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.DataBits != 8 {
		t.Errorf("Expected DataBits 8, got %d", config.DataBits)
	}
	if config.StopBits != 1 {
		t.Errorf("Expected StopBits 1, got %d", config.StopBits)
	}
	if config.Parity != ParityNone {
		t.Errorf("Expected Parity None, got %v", config.Parity)
	}
	if config.Timeout != time.Second {
		t.Errorf("Expected Timeout 1s, got %v", config.Timeout)
	}
	if config.WriteMode != WriteModeBuffered {
		t.Errorf("Expected buffered writes, got %v", config.WriteMode)
	}
}

func TestFunctionalOptions(t *testing.T) {
	tests := []struct {
		name    string
		opt     Option
		wantErr bool
		check   func(Config) bool
	}{
		{"7 data bits", WithDataBits(7), false, func(c Config) bool { return c.DataBits == 7 }},
		{"4 data bits", WithDataBits(4), true, nil},
		{"9 data bits", WithDataBits(9), true, nil},
		{"2 stop bits", WithStopBits(2), false, func(c Config) bool { return c.StopBits == 2 }},
		{"3 stop bits", WithStopBits(3), true, nil},
		{"even parity", WithParity(ParityEven), false, func(c Config) bool { return c.Parity == ParityEven }},
		{"bogus parity", WithParity(Parity(9)), true, nil},
		{"250ms timeout", WithTimeout(250 * time.Millisecond), false, func(c Config) bool { return c.Timeout == 250*time.Millisecond }},
		{"zero timeout", WithTimeout(0), false, func(c Config) bool { return c.Timeout == 0 }},
		{"negative timeout", WithTimeout(-time.Millisecond), true, nil},
		{"sync write", WithSyncWrite(), false, func(c Config) bool { return c.WriteMode == WriteModeSynced }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			err := tt.opt(&config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && !tt.check(config) {
				t.Errorf("option not applied: %+v", config)
			}
		})
	}
}

func TestParityString(t *testing.T) {
	if ParityNone.String() != "none" || ParityOdd.String() != "odd" || ParityEven.String() != "even" {
		t.Error("unexpected parity names")
	}
}
