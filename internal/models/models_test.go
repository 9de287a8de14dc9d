package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "CLIENT", want: RoleClient},
		{in: "client", want: RoleClient},
		{in: " Admin ", want: RoleAdmin},
		{in: "", wantErr: true},
		{in: "ROOT", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRole(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_JSON(t *testing.T) {
	type wrapper struct {
		Role Role `json:"role"`
	}
	b, err := json.Marshal(wrapper{Role: RoleAdmin})
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"ADMIN"}`, string(b))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"role":""}`), &w))
	assert.Equal(t, RoleNone, w.Role)
	assert.Error(t, json.Unmarshal([]byte(`{"role":"GUEST"}`), &w))
}

func TestTariffInput_Normalize(t *testing.T) {
	empty := ""
	in := TariffInput{
		Name:           "1 месяц",
		DurationDays:   30,
		SquadID:        &empty,
		Badge:          &empty,
		TrafficLimitGB: 2,
	}.Normalize()

	assert.Nil(t, in.SquadID)
	assert.Nil(t, in.Badge)
	assert.Nil(t, in.Tier)
	assert.Equal(t, int64(2*BytesInGB), in.TrafficLimitBytes)
	assert.Zero(t, in.TrafficLimitGB)
}

func TestTariff_Price(t *testing.T) {
	tr := Tariff{PriceUAH: 100, PriceRUB: 250, PriceUSD: 3}
	assert.Equal(t, 100.0, tr.Price(CurrencyUAH))
	assert.Equal(t, 250.0, tr.Price(CurrencyRUB))
	assert.Equal(t, 3.0, tr.Price(CurrencyUSD))
}

func TestSquad_KeyAndName(t *testing.T) {
	assert.Equal(t, "u-1", Squad{UUID: "u-1", ID: "i-1"}.Key())
	assert.Equal(t, "i-1", Squad{ID: "i-1"}.Key())
	assert.Equal(t, "Title", Squad{Title: "Title"}.DisplayName())
	assert.Equal(t, "Без названия", Squad{}.DisplayName())
}

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider("platega")
	require.NoError(t, err)
	assert.Equal(t, ProviderPlatega, p)

	_, err = ParseProvider("yookassa")
	assert.Error(t, err)

	assert.Equal(t, "Криптовалюта", PlategaMethodLabel(13))
	assert.Equal(t, "Platega 99", PlategaMethodLabel(99))
}

func TestParsePreference(t *testing.T) {
	_, err := ParseLanguage("de")
	assert.Error(t, err)
	c, err := ParseCurrency("usd")
	require.NoError(t, err)
	assert.Equal(t, "$", c.Symbol())
	assert.Equal(t, "USD", c.Code())
	assert.Equal(t, Preference{Language: LangRU, Currency: CurrencyUAH}, DefaultPreference())
}

func TestMisc(t *testing.T) {
	assert.Equal(t, "SALE10", NormalizeCode("  sale10 "))
	assert.Equal(t, TicketClosed, TicketOpen.Toggled())
	assert.Equal(t, TicketOpen, TicketClosed.Toggled())
	assert.Equal(t, ReferralSettings{InviteeBonusDays: 7, ReferrerBonusDays: 3}, ReferralSettings{ReferrerBonusDays: 3}.WithDefaults())
}
