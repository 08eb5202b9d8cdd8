package scenario

// Defaults returns the six litmus scenarios from spec §8, encoded as
// data rather than loaded from a file - useful as a smoke-test fixture
// and as the seed set a scenario file can be diffed against.
func Defaults() []Scenario {
	return []Scenario{
		{
			Name:        "S1-sc-store-load",
			Description: "a single SC thread observes its own store",
			Model:       "SC",
			Source:      "a = 7\nx = 0\nstore SEQ_CST x a\nload SEQ_CST x b\n",
		},
		{
			Name:        "S2-tso-store-buffer",
			Description: "TSO admits a store-buffer reordering SC forbids",
			Model:       "TSO",
			Source: "addrA = 1\none = 1\nstore RLX addrA one\n\n" +
				"addrB = 2\ntwo = 2\nstore RLX addrB two\naddrA = 1\nload RLX addrA r0\n",
		},
		{
			Name:        "S3-sc-backward-branch",
			Description: "a backward goto rewinds and re-executes the loop body",
			Model:       "SC",
			Source:      "i = 3\none = 1\nL: i = i - one\nif i goto L\n",
		},
		{
			Name:        "S4-tso-fence-orders-propagates",
			Description: "a fence keeps a thread's propagates from crossing it",
			Model:       "TSO",
			Source:      "v = 1\naddrx = 10\naddry = 20\nstore RLX addrx v\nfence SEQ_CST\nstore RLX addry v\n",
		},
		{
			Name:        "S5-pso-distinct-address-reorder",
			Description: "PSO lets propagates to distinct addresses complete out of order",
			Model:       "PSO",
			Source:      "v = 1\naddrx = 10\naddry = 20\nstore RLX addrx v\nstore RLX addry v\n",
		},
		{
			Name:        "S6-tso-cas-propagate",
			Description: "a successful CAS propagates, a failing CAS does not",
			Model:       "TSO",
			Source:      "addr = 0\nexp = 0\ndes = 1\nto := cas RLX addr exp des\n",
		},
	}
}
