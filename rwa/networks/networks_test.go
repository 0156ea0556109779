// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package networks

import (
	"math/big"
	"testing"
)

func TestChainLookup(t *testing.T) {
	for _, chainID := range []uint64{
		EthMainnetChainID, EthSepoliaChainID,
		RootstockMainnetChainID, RootstockTestnetChainID,
	} {
		params, found := Chain(chainID)
		if !found {
			t.Fatalf("chain %d not registered", chainID)
		}
		if params.ChainID != chainID {
			t.Fatalf("chain %d table entry reports id %d", chainID, params.ChainID)
		}
		if params.Name == "" || params.NativeCurrency.Symbol == "" || len(params.RPCURLs) == 0 {
			t.Fatalf("chain %d has incomplete parameters: %+v", chainID, params)
		}
		if !Supported(chainID) {
			t.Fatalf("chain %d not supported", chainID)
		}
	}
	if _, found := Chain(424242); found {
		t.Fatal("unregistered chain resolved")
	}
	if Supported(424242) {
		t.Fatal("unregistered chain supported")
	}
	if name := ChainName(424242); name != "Unknown Network" {
		t.Fatalf("unexpected name for unregistered chain: %q", name)
	}
}

func TestParseUnits(t *testing.T) {
	tests := []struct {
		amt      string
		decimals uint8
		want     string // decimal string of atoms
		wantErr  bool
	}{
		{"1", 18, "1000000000000000000", false},
		{"0.5", 18, "500000000000000000", false},
		{"123.456", 3, "123456", false},
		{"0", 18, "0", false},
		{"0.000000000000000001", 18, "1", false},
		{"1.2345", 3, "", true}, // excess precision
		{"-5", 18, "", true},
		{"", 18, "", true},
		{"abc", 18, "", true},
		{".", 18, "", true},
	}
	for _, test := range tests {
		v, err := ParseUnits(test.amt, test.decimals)
		if (err != nil) != test.wantErr {
			t.Fatalf("ParseUnits(%q, %d): err = %v, wantErr = %t", test.amt, test.decimals, err, test.wantErr)
		}
		if err != nil {
			continue
		}
		if v.String() != test.want {
			t.Fatalf("ParseUnits(%q, %d) = %s, want %s", test.amt, test.decimals, v, test.want)
		}
	}
}

func TestFormatUnits(t *testing.T) {
	atoms := func(s string) *big.Int {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			t.Fatalf("bad test value %q", s)
		}
		return v
	}
	tests := []struct {
		v        *big.Int
		decimals uint8
		want     string
	}{
		{atoms("1000000000000000000"), 18, "1"},
		{atoms("1500000000000000000"), 18, "1.5"},
		{atoms("1"), 18, "0.000000000000000001"},
		{atoms("0"), 18, "0"},
		{nil, 18, "0"},
		{atoms("123456"), 3, "123.456"},
		{atoms("-1500000000000000000"), 18, "-1.5"},
	}
	for _, test := range tests {
		if got := FormatUnits(test.v, test.decimals); got != test.want {
			t.Fatalf("FormatUnits(%s, %d) = %q, want %q", test.v, test.decimals, got, test.want)
		}
	}
}

func TestUnitsRoundTrip(t *testing.T) {
	for _, amt := range []string{"1", "0.5", "123.456789", "0.000000000000000001"} {
		v, err := ParseEther(amt)
		if err != nil {
			t.Fatalf("ParseEther(%q) error: %v", amt, err)
		}
		if got := FormatEther(v); got != amt {
			t.Fatalf("round trip %q -> %q", amt, got)
		}
	}
}
