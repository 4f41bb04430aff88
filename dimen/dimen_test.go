package dimen

import "testing"

func TestFromUnitToUnitRoundTripsWithinOneScaledPoint(t *testing.T) {
	units := []Unit{Point, Pica, Inch, BigPoint, Centimeter, Millimeter, DidotPoint, Cicero, ScaledPoint}
	for _, u := range units {
		for _, v := range []float64{0, 1, 3.5, 12, 72.27} {
			d, err := FromUnit(v, u)
			if err != nil {
				t.Fatalf("FromUnit(%v, %v): %v", v, u, err)
			}
			back, err := FromUnit(d.ToUnit(u), u)
			if err != nil {
				t.Fatalf("FromUnit(ToUnit) round trip: %v", err)
			}
			diff := int64(d) - int64(back)
			if diff < 0 {
				diff = -diff
			}
			if diff > 1 {
				t.Errorf("unit %v value %v: round trip differs by %d sp, want <= 1", u, v, diff)
			}
		}
	}
}

func TestDimenOverflowBoundary(t *testing.T) {
	if _, err := validate(dimenMax); err != nil {
		t.Errorf("validate(dimenMax) = %v, want no error", err)
	}
	if _, err := validate(dimenMin); err != nil {
		t.Errorf("validate(dimenMin) = %v, want no error", err)
	}
	if _, err := validate(dimenMax + 1); err == nil {
		t.Errorf("validate(dimenMax+1) succeeded, want ErrOverflow")
	}
	if _, err := validate(dimenMin - 1); err == nil {
		t.Errorf("validate(dimenMin-1) succeeded, want ErrOverflow")
	}
}

func TestAddSubOverflow(t *testing.T) {
	max := Dimen(dimenMax)
	if _, err := max.Add(1); err == nil {
		t.Errorf("max.Add(1) succeeded, want ErrOverflow")
	}
	min := Dimen(dimenMin)
	if _, err := min.Sub(1); err == nil {
		t.Errorf("min.Sub(1) succeeded, want ErrOverflow")
	}
	if sum, err := Dimen(10).Add(5); err != nil || sum != 15 {
		t.Errorf("10+5 = %v, %v, want 15, nil", sum, err)
	}
}

func TestDivIntByZero(t *testing.T) {
	if _, err := Dimen(10).DivInt(0); err == nil {
		t.Errorf("DivInt(0) succeeded, want an error")
	}
}

func TestCmp(t *testing.T) {
	if Dimen(1).Cmp(Dimen(2)) != -1 {
		t.Errorf("1.Cmp(2) != -1")
	}
	if Dimen(2).Cmp(Dimen(1)) != 1 {
		t.Errorf("2.Cmp(1) != 1")
	}
	if Dimen(1).Cmp(Dimen(1)) != 0 {
		t.Errorf("1.Cmp(1) != 0")
	}
}

func TestSpringDimenAddFiniteFinite(t *testing.T) {
	sum := FiniteSpring(Dimen(10)).Add(FiniteSpring(Dimen(5)))
	if sum.IsFil || sum.Dimen != 15 {
		t.Errorf("finite+finite = %+v, want FiniteSpring(15)", sum)
	}
}

func TestSpringDimenAddSameFilOrderSumsMagnitudes(t *testing.T) {
	sum := FilSpring(FilDimen{Kind: Fil, Amt: 2}).Add(FilSpring(FilDimen{Kind: Fil, Amt: 3}))
	if !sum.IsFil || sum.Fil.Kind != Fil || sum.Fil.Amt != 5 {
		t.Errorf("fil(2)+fil(3) = %+v, want fil(5)", sum)
	}
}

func TestSpringDimenAddMixedFilOrderKeepsOnlyTheLargerOrder(t *testing.T) {
	// Regardless of argument order, the higher fil order wins and the
	// lower order's magnitude is discarded entirely.
	sum := FilSpring(FilDimen{Kind: Fil, Amt: 2}).Add(FilSpring(FilDimen{Kind: Fill, Amt: 3}))
	if !sum.IsFil || sum.Fil.Kind != Fill || sum.Fil.Amt != 3 {
		t.Errorf("fil(2)+fill(3) = %+v, want fill(3)", sum)
	}

	sum = FilSpring(FilDimen{Kind: Fill, Amt: 3}).Add(FilSpring(FilDimen{Kind: Fil, Amt: 2}))
	if !sum.IsFil || sum.Fil.Kind != Fill || sum.Fil.Amt != 3 {
		t.Errorf("fill(3)+fil(2) = %+v, want fill(3)", sum)
	}

	sum = FilSpring(FilDimen{Kind: Filll, Amt: 1}).Add(FilSpring(FilDimen{Kind: Fill, Amt: 100}))
	if !sum.IsFil || sum.Fil.Kind != Filll || sum.Fil.Amt != 1 {
		t.Errorf("filll(1)+fill(100) = %+v, want filll(1)", sum)
	}
}

func TestSpringDimenAddFiniteAndFilAbsorbsFinite(t *testing.T) {
	sum := FiniteSpring(Dimen(1000)).Add(FilSpring(FilDimen{Kind: Fil, Amt: 1}))
	if !sum.IsFil || sum.Fil.Kind != Fil || sum.Fil.Amt != 1 {
		t.Errorf("finite+fil = %+v, want fil(1) unchanged", sum)
	}

	sum = FilSpring(FilDimen{Kind: Fill, Amt: 2}).Add(FiniteSpring(Dimen(1000)))
	if !sum.IsFil || sum.Fil.Kind != Fill || sum.Fil.Amt != 2 {
		t.Errorf("fil+finite = %+v, want fill(2) unchanged", sum)
	}
}
