package terrain

import "testing"

func TestHash2dDeterministic(t *testing.T) {
	a := hash2d(10, 20, 42)
	b := hash2d(10, 20, 42)
	if a != b {
		t.Error("hash2d should be a pure function of its inputs")
	}
	if a < 0 || a >= 1 {
		t.Errorf("hash2d returned %v, want a value in [0, 1)", a)
	}
}

func TestHash2dVariesWithInput(t *testing.T) {
	if hash2d(1, 1, 1) == hash2d(2, 1, 1) {
		t.Error("hash2d should (almost certainly) differ for different x")
	}
}

func TestFbmStaysInUnitRange(t *testing.T) {
	for _, seed := range []int64{0, 1, 99999} {
		v := fbm(1.23, 4.56, 4, seed)
		if v < 0 || v > 1 {
			t.Errorf("fbm(seed=%d) = %v, want in [0, 1]", seed, v)
		}
	}
}

func TestFloorModAlwaysNonNegative(t *testing.T) {
	cases := []int{-5, -1, 0, 1, 512, -512}
	for _, v := range cases {
		got := floorMod(v, 512)
		if got < 0 || got >= 512 {
			t.Errorf("floorMod(%d, 512) = %d, out of [0, 512)", v, got)
		}
	}
}

func TestClamp(t *testing.T) {
	if clamp(5, 0, 1) != 1 {
		t.Error("clamp should cap above the upper bound")
	}
	if clamp(-5, 0, 1) != 0 {
		t.Error("clamp should cap below the lower bound")
	}
	if clamp(0.5, 0, 1) != 0.5 {
		t.Error("clamp should pass through in-range values")
	}
}
