package image

import "github.com/aramiscd/gren-image/internal/pixel"

// Map forces img if lazy and applies f to every cell, preserving shape
// and Meta (spec.md §4.6 `map`).
func Map(f func(pixel.Pixel) pixel.Pixel, img Image) Image {
	forced := Eval(img)
	px := PixelsOf(forced)
	return FromArray(MetaOf(forced), px.Map(f))
}

// Get crops img to the rectangle (sx, sy, sw, sh), clamping sw/sh to the
// remaining extent. If sx or sy already falls outside the image, img is
// returned unchanged rather than an empty crop (spec.md §4.6 `get`,
// boundary property 9).
//
// The result's Meta is replaced with MetaFromData{sw, sh, Channel4At8},
// discarding the source's origin format. This is spec.md §9 note 4's
// documented quirk, not a bug: `source` on a cropped image is no longer
// observable after Get.
func Get(sx, sy, sw, sh int, img Image) Image {
	forced := Eval(img)
	px := PixelsOf(forced)
	w, h := px.Width(), px.Height()
	if sx >= w || sy >= h {
		return forced
	}
	cropped := px.Crop(sx, sy, sw, sh)
	return FromArray(MetaFromData{
		Width:  cropped.Width(),
		Height: cropped.Height(),
		Color:  Channel4At8,
	}, cropped)
}

// Put forces both images and pastes from onto to at offset (dx, dy). Rows
// and cells of from that fall outside to's bounds are silently skipped
// (spec.md §4.6 `put`). The result's Meta is MetaFromData{to.width,
// to.height, Channel4At8}, matching Get's origin-discarding convention.
func Put(dx, dy int, from, to Image) Image {
	toForced := Eval(to)
	fromForced := Eval(from)
	toPx := PixelsOf(toForced)
	fromPx := PixelsOf(fromForced)
	pasted := toPx.Paste(dx, dy, fromPx)
	return FromArray(MetaFromData{
		Width:  pasted.Width(),
		Height: pasted.Height(),
		Color:  Channel4At8,
	}, pasted)
}

// Mirror forces img if lazy and reverses row order when vert is true,
// reverses each row's cells when horiz is true, and is the identity when
// neither is set (spec.md §4.6 `mirror`).
func Mirror(horiz, vert bool, img Image) Image {
	forced := Eval(img)
	px := PixelsOf(forced)
	if horiz {
		px = px.MirrorHorizontal()
	}
	if vert {
		px = px.MirrorVertical()
	}
	return FromArray(MetaOf(forced), px)
}
