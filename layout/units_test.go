package layout

import (
	"math"
	"testing"
)

// TestPxMmRoundTrip 验证 px↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPxMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.5, 1, 12, 16, 40, 96, 400, 4000}
	for _, px := range samples {
		mm := px * PxToMm
		back := mm * MmToPx
		if diff := math.Abs(back - px); diff > 1e-9 {
			t.Fatalf("px→mm→px 往返误差过大: in=%gpx mm=%g back=%g diff=%g", px, mm, back, diff)
		}
	}
	// 96px = 1in = 25.4mm
	if got := (Length{Value: 96, Unit: UnitPX}).ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("96px 转 mm 期望 25.4，实际 %g", got)
	}
}

// TestLengthToConversions 覆盖 Length 在常见单位上的转换正确性。
func TestLengthToConversions(t *testing.T) {
	if got := (Length{Value: 2.54, Unit: UnitCM}).ToMM(); math.Abs(got-25.4) > 1e-9 {
		t.Fatalf("2.54cm 转 mm 期望 25.4，实际 %g", got)
	}
	if got := (Length{Value: 1, Unit: UnitIN}).ToPX(); math.Abs(got-96) > 1e-9 {
		t.Fatalf("1in 转 px 期望 96，实际 %g", got)
	}
	if got := (Length{Value: 12, Unit: UnitPT}).ToPX(); math.Abs(got-16) > 1e-3 {
		t.Fatalf("12pt 转 px 期望 16，实际 %g", got)
	}
	// 无单位按 px 处理
	if got := (Length{Value: 40}).ToPX(); math.Abs(got-40) > 1e-9 {
		t.Fatalf("无单位 40 转 px 期望 40，实际 %g", got)
	}
}

func TestParseRawLengthStr(t *testing.T) {
	cases := map[string]Length{
		"40":     {Value: 40, Unit: UnitNone},
		"40px":   {Value: 40, Unit: UnitPX},
		" 10mm ": {Value: 10, Unit: UnitMM},
		"1.5in":  {Value: 1.5, Unit: UnitIN},
	}
	for in, want := range cases {
		got, ok := ParseRawLengthStr(in)
		if !ok || got != want {
			t.Fatalf("ParseRawLengthStr(%q) = %+v, %v", in, got, ok)
		}
	}
	if _, ok := ParseRawLengthStr("abc"); ok {
		t.Fatalf("expected failure for abc")
	}
}

// TestLineHeightResolve 验证行高解析：倍数与绝对值两种语义。
func TestLineHeightResolve(t *testing.T) {
	fontSize := Length{Value: 16, Unit: UnitPX}

	lh, ok := ParseLineHeight("1.6x")
	if !ok || lh.Kind != LineHeightFactor {
		t.Fatalf("1.6x 应解析为倍数: %+v", lh)
	}
	if got := lh.Resolve(fontSize, UnitPX); math.Abs(got-25.6) > 1e-9 {
		t.Fatalf("1.6x 解析为 px 错误: %g", got)
	}

	abs, ok := ParseLineHeight("24px")
	if !ok || abs.Kind != LineHeightAbsolute {
		t.Fatalf("24px 应解析为绝对行高: %+v", abs)
	}
	if got := abs.FactorOf(fontSize); math.Abs(got-1.5) > 1e-9 {
		t.Fatalf("24px / 16px 期望 1.5，实际 %g", got)
	}
	if _, ok := ParseLineHeight("-1"); ok {
		t.Fatalf("负行高应当失败")
	}
}
