package seed

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalendarID(t *testing.T) {
	tests := []struct {
		name     string
		clientID string
		appID    string
		key      string
		want     string
	}{
		{
			name:     "plain tenant",
			clientID: "acme",
			appID:    "crm",
			key:      "work",
			want:     "cal_acme_crm_work",
		},
		{
			name:     "app id is stripped of non-alphanumerics",
			clientID: "acme",
			appID:    "crm-app.v2",
			key:      "sales",
			want:     "cal_acme_crmappv2_sales",
		},
		{
			name:     "deterministic for the same tenant",
			clientID: "globex",
			appID:    "desk_01",
			key:      "personal",
			want:     "cal_globex_desk01_personal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CalendarID(tt.clientID, tt.appID, tt.key))
			// Same inputs always produce the same id.
			require.Equal(t, CalendarID(tt.clientID, tt.appID, tt.key), CalendarID(tt.clientID, tt.appID, tt.key))
		})
	}
}

func TestDefaultCalendarIDIsWork(t *testing.T) {
	require.Equal(t, "cal_acme_crm_work", DefaultCalendarID("acme", "crm"))
	require.Equal(t, CalendarID("acme", "crm", "work"), DefaultCalendarID("acme", "crm"))
}

func TestDefaultCalendarTemplate(t *testing.T) {
	require.Len(t, DefaultCalendars, 4)

	keys := make([]string, 0, len(DefaultCalendars))
	for _, tpl := range DefaultCalendars {
		keys = append(keys, tpl.Key)
		require.NotEmpty(t, tpl.Name)
		require.NotEmpty(t, tpl.Color)
	}
	require.Equal(t, []string{"work", "sales", "marketing", "personal"}, keys)
}
