package health

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dartalib/backend/core"
)

func TestMain(m *testing.M) {
	core.Conf = &core.Config{AppName: "dartalib", SecretKey: "secret", TestMode: true}
	core.InitValidation()
	os.Exit(m.Run())
}

func TestNewRecordValidate(t *testing.T) {
	tests := []struct {
		name         string
		rec          NewRecord
		wantErr      bool
		wantSeverity string
	}{
		{
			name:         "empty severity defaults to low",
			rec:          NewRecord{StudentID: "s1", Condition: "زكام"},
			wantSeverity: SeverityLow,
		},
		{
			name:         "explicit severity is kept",
			rec:          NewRecord{StudentID: "s1", Condition: "حمى", Severity: "High"},
			wantSeverity: SeverityHigh,
		},
		{
			name:    "unknown severity is rejected",
			rec:     NewRecord{StudentID: "s1", Condition: "حمى", Severity: "critical"},
			wantErr: true,
		},
		{
			name:    "condition is required",
			rec:     NewRecord{StudentID: "s1", Severity: SeverityLow},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rec.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSeverity, tt.rec.Severity)
		})
	}
}

func TestNewRecordValidateDefaultsDate(t *testing.T) {
	rec := NewRecord{StudentID: "s1", Condition: "زكام"}
	require.NoError(t, rec.Validate())
	assert.Equal(t, time.Now().UTC().Format(DateLayout), rec.Date)
}
