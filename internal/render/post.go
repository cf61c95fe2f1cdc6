package render

import "math"

// Post is the output stage applied to every frame before it is written.
type Post struct {
	ExposureEV float64
	Gamma      float64 // 0 = linear output
	ToneMap    bool

	WhiteCap    float64 // sum of channels per pixel, 0 = no cap
	ChanmA      float64 // mA per channel at full scale
	BudgetmA    float64 // 0 = no global budget
	LimiterKnee float64 // fraction of budget where soft limiting starts
}

// DefaultPost tone maps for on-screen preview and leaves the limiter off.
func DefaultPost() Post {
	return Post{Gamma: 2.2, ToneMap: true, ChanmA: 20, LimiterKnee: 0.9}
}

// Apply runs exposure, tone map, gamma and the limiter in that order.
func (p Post) Apply(buf []Color) {
	exposure := float32(math.Pow(2.0, p.ExposureEV))
	for i := range buf {
		r, g, b := buf[i].R*exposure, buf[i].G*exposure, buf[i].B*exposure
		if p.ToneMap {
			r, g, b = acesApprox(r), acesApprox(g), acesApprox(b)
		}
		if p.Gamma > 0 && p.Gamma != 1 {
			ig := 1.0 / p.Gamma
			r, g, b = powf(r, ig), powf(g, ig), powf(b, ig)
		}
		buf[i] = Color{clamp01(r), clamp01(g), clamp01(b)}
	}
	p.limit(buf)
}

// limit caps each pixel's channel sum, then scales the whole frame to the
// current budget with a soft knee.
func (p Post) limit(buf []Color) {
	if p.WhiteCap > 0 {
		wc := float32(p.WhiteCap)
		for i := range buf {
			s := buf[i].R + buf[i].G + buf[i].B
			if s > wc {
				buf[i] = scale(buf[i], wc/s)
			}
		}
	}
	if p.BudgetmA <= 0 {
		return
	}
	chanmA := p.ChanmA
	if chanmA <= 0 {
		chanmA = 20
	}
	knee := p.LimiterKnee
	if knee <= 0 || knee >= 1 {
		knee = 0.9
	}
	var total float64
	for i := range buf {
		total += float64(buf[i].R+buf[i].G+buf[i].B) * chanmA
	}
	if total <= 0 {
		return
	}
	ratio := total / p.BudgetmA
	switch {
	case ratio <= knee:
		return
	case ratio <= 1:
		minS := p.BudgetmA / total
		t := (ratio - knee) / (1 - knee)
		applyGlobalScale(buf, float32(1-t*(1-minS)))
	default:
		applyGlobalScale(buf, float32(p.BudgetmA/total))
	}
}

func applyGlobalScale(buf []Color, s float32) {
	if s >= 1 {
		return
	}
	for i := range buf {
		buf[i] = scale(buf[i], s)
	}
}

func clamp01(x float32) float32 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func powf(x float32, p float64) float32 {
	return float32(math.Pow(float64(x), p))
}

// Approximate ACES filmic curve (Narkowicz 2015).
func acesApprox(x float32) float32 {
	a := float32(2.51)
	b := float32(0.03)
	c := float32(2.43)
	d := float32(0.59)
	e := float32(0.14)
	return clamp01((x * (a*x + b)) / (x*(c*x+d) + e))
}
