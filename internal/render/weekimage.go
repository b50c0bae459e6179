package render

import (
	"bytes"
	"image/color"
	"strconv"
	"time"

	"github.com/bethmed/clinic-api/internal/model"
	"github.com/bethmed/clinic-api/internal/schedule"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

const (
	imageWidth      = 1400
	imageHeight     = 900
	headerHeight    = 100
	leftLabelsWidth = 80
	legendWidth     = 120
	dayPaddingX     = 8
	minBlockHeight  = 8.0
	blockRadius     = 6.0
	shadowOffset    = 3.0
	daysInWeek      = 7
	hourPadding     = 2
	defaultMinHour  = 8
	defaultMaxHour  = 18
)

var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	todayBgColor   = color.NRGBA{255, 99, 71, 125}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}

	scheduledColor = color.RGBA{133, 193, 85, 220}
	completedColor = color.RGBA{158, 158, 158, 200}
	cancelledColor = color.RGBA{255, 182, 193, 255}
	defaultColor   = color.RGBA{220, 220, 220, 200}
	blockTextColor = color.RGBA{20, 24, 28, 230}
	shadowColor    = color.RGBA{0, 0, 0, 20}

	legendTextColor = color.RGBA{70, 74, 78, 220}
)

type weekBounds struct {
	start time.Time
	end   time.Time
}

type hourRange struct {
	start int
	end   int
	total int
}

// block is an appointment positioned on the canvas grid in minutes since
// midnight. End comes from the doctor's availability slot matching the
// appointment's start; without one the block gets a nominal height.
type block struct {
	startMin int
	endMin   int
	label    string
	status   model.AppointmentStatus
}

// WeekImage renders a clinic's appointments for the week containing ref as
// a PNG schedule grid.
func WeekImage(ref time.Time, appointments []*model.Appointment, slots []*model.AvailabilitySlot) ([]byte, error) {
	week := normalizeToWeekBounds(ref)
	today := normalizeToDay(ref)

	blocksByDay := groupByDay(appointments, slots)
	hours := calculateHourRange(blocksByDay)

	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(bgColor)
	dc.Clear()

	dayWidth := (imageWidth - leftLabelsWidth - legendWidth) / daysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, week)
	drawHourLabels(dc, hours, cellHeight)

	currentDate := week.start
	for dayIndex := 0; dayIndex < daysInWeek; dayIndex++ {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)

		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex, isSameDay(currentDate, today))
		drawDayHeader(dc, currentDate, x, y, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)

		for _, b := range blocksByDay[currentDate.Format("2006-01-02")] {
			drawBlock(dc, b, x, y, dayWidth, hours, cellHeight)
		}

		currentDate = currentDate.AddDate(0, 0, 1)
	}

	drawLegend(dc, dayWidth)

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// normalizeToWeekBounds snaps a date to its Monday-Sunday week.
func normalizeToWeekBounds(date time.Time) weekBounds {
	normalized := normalizeToDay(date)

	daysSinceMonday := int(normalized.Weekday()) - 1
	if normalized.Weekday() == time.Sunday {
		daysSinceMonday = 6
	}

	start := normalized.AddDate(0, 0, -daysSinceMonday)
	return weekBounds{start: start, end: start.AddDate(0, 0, 6)}
}

func normalizeToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func groupByDay(appointments []*model.Appointment, slots []*model.AvailabilitySlot) map[string][]block {
	out := make(map[string][]block)
	for _, apt := range appointments {
		start, err := schedule.ParseClock(apt.Time)
		if err != nil {
			continue
		}

		end := start + 30
		if slot := matchingSlot(apt, slots); slot != nil {
			if parsed, err := schedule.ParseClock(slot.EndTime); err == nil && parsed > start {
				end = parsed
			}
		}

		out[apt.Date] = append(out[apt.Date], block{
			startMin: start,
			endMin:   end,
			label:    apt.Time,
			status:   apt.Status,
		})
	}
	return out
}

func matchingSlot(apt *model.Appointment, slots []*model.AvailabilitySlot) *model.AvailabilitySlot {
	date, err := time.Parse("2006-01-02", apt.Date)
	if err != nil {
		return nil
	}
	for _, slot := range slots {
		day, ok := schedule.ParseWeekday(slot.Day)
		if !ok || day != date.Weekday() {
			continue
		}
		if slot.DoctorID == apt.DoctorID && slot.StartTime == apt.Time {
			return slot
		}
	}
	return nil
}

func calculateHourRange(blocksByDay map[string][]block) hourRange {
	minHour := 24
	maxHour := 0

	for _, blocks := range blocksByDay {
		for _, b := range blocks {
			startH := b.startMin / 60
			endH := b.endMin / 60
			if b.endMin%60 > 0 {
				endH++
			}
			if startH < minHour {
				minHour = startH
			}
			if endH > maxHour {
				maxHour = endH
			}
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPadding
	endHour := maxHour + hourPadding
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 23 {
		endHour = 23
	}

	return hourRange{start: startHour, end: endHour, total: endHour - startHour + 1}
}

func drawHeader(dc *gg.Context, week weekBounds) {
	title := week.start.Format("Jan 2") + " - " + week.end.Format("Jan 2, 2006")
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, float64(imageWidth)/2, float64(headerHeight)/2, 0.5, 0.5)
}

func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)
	for hIdx := 0; hIdx < hours.total; hIdx++ {
		actualHour := hours.start + hIdx
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		label := strconv.Itoa(actualHour) + ":00"
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	if isToday {
		dc.SetColor(todayBgColor)
	} else if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()
}

func drawDayHeader(dc *gg.Context, date time.Time, x, y float64, dayWidth int) {
	dc.SetColor(textColor)
	dc.DrawStringAnchored(date.Format("02.01"), x+float64(dayWidth)/2, y, 0.5, -2.2)
	dc.DrawStringAnchored(date.Weekday().String()[:3], x+float64(dayWidth)/2, y, 0.5, -1)
}

func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)
	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

func drawBlock(dc *gg.Context, b block, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	startHour := float64(b.startMin) / 60.0
	endHour := float64(b.endMin) / 60.0

	blockY := y + (startHour-float64(hours.start))*cellHeight
	blockHeight := (endHour - startHour) * cellHeight
	if blockHeight < minBlockHeight {
		blockHeight = minBlockHeight
	}

	fillColor := statusColor(b.status)
	blockWidth := float64(dayWidth) - float64(dayPaddingX*2)

	dc.SetColor(shadowColor)
	dc.DrawRoundedRectangle(x+dayPaddingX+shadowOffset, blockY+2+shadowOffset, blockWidth, blockHeight-4, blockRadius)
	dc.Fill()

	dc.SetColor(fillColor)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), blockY+2, blockWidth, blockHeight-4, blockRadius)
	dc.Fill()

	dc.SetColor(darken(fillColor, 0.8))
	dc.SetLineWidth(1)
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), blockY+2, blockWidth, blockHeight-4, blockRadius)
	dc.Stroke()

	dc.SetColor(blockTextColor)
	dc.DrawStringAnchored(b.label, x+float64(dayPaddingX)+8, blockY+16, 0, 0)
}

func statusColor(status model.AppointmentStatus) color.RGBA {
	switch status {
	case model.AppointmentStatusScheduled:
		return scheduledColor
	case model.AppointmentStatusCompleted:
		return completedColor
	case model.AppointmentStatusCancelled:
		return cancelledColor
	default:
		return defaultColor
	}
}

func darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}

func drawLegend(dc *gg.Context, dayWidth int) {
	legendX := float64(leftLabelsWidth + daysInWeek*dayWidth + 10)
	legendY := float64(imageHeight) - 100.0

	items := []struct {
		label string
		clr   color.Color
	}{
		{"Scheduled", scheduledColor},
		{"Completed", completedColor},
		{"Cancelled", cancelledColor},
	}

	boxW, boxH := 20.0, 14.0
	dc.SetColor(legendTextColor)
	for i, item := range items {
		rowY := legendY + float64(i)*24.0
		dc.SetColor(item.clr)
		dc.DrawRectangle(legendX, rowY, boxW, boxH)
		dc.Fill()
		dc.SetColor(legendTextColor)
		dc.DrawStringAnchored(item.label, legendX+boxW+6, rowY+boxH/2, 0, 0.5)
	}
}
