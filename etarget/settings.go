package main

import (
	"fmt"
	"strconv"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/goetarget/pkg/device"
	"github.com/itohio/goetarget/pkg/target"
)

// showSettingsDialog displays a settings dialog with tabs for all configuration options.
func showSettingsDialog(state *appState) {
	tabs := container.NewAppTabs(
		createSerialTab(state),
		createCalibrationTab(state),
		createTargetTab(state),
		createEnvironmentTab(state),
		createMockTab(state),
	)

	content := container.NewBorder(nil, nil, nil, nil, tabs)
	content.Resize(fyne.NewSize(600, 500))

	d := dialog.NewCustom("Settings", "Close", content, state.window)
	d.Resize(fyne.NewSize(600, 500))
	d.Show()
}

// saveConfig writes the configuration and pushes calibration changes to a
// running scorer.
func saveConfig(state *appState) {
	if err := state.cfg.Validate(); err != nil {
		dialog.ShowError(err, state.window)
		return
	}
	if err := state.cfg.Save(state.configPath); err != nil {
		dialog.ShowError(fmt.Errorf("failed to save config: %w", err), state.window)
		return
	}

	state.targetView.SetTarget(state.cfg.Calibration.Calibre, state.cfg.Calibration.TargetType)
	if state.chain != nil {
		state.chain.scorer.SetCalibration(state.cfg.Calibration, state.cfg.Environment)
	}
}

// createSerialTab creates the Serial configuration tab.
func createSerialTab(state *appState) *container.TabItem {
	// Get available serial ports
	ports, err := device.Ports()
	portOptions := []string{}
	portMap := make(map[string]string) // Map display name to actual port name

	if err == nil {
		for _, port := range ports {
			displayName := port.Name
			if port.Description != "" && port.Description != port.Name {
				displayName = fmt.Sprintf("%s (%s)", port.Name, port.Description)
			}
			portOptions = append(portOptions, displayName)
			portMap[displayName] = port.Name
		}
	}

	// Add current port if not in list
	currentPort := state.cfg.Serial.Port
	currentDisplay := currentPort
	found := false
	for _, opt := range portOptions {
		if portMap[opt] == currentPort {
			currentDisplay = opt
			found = true
			break
		}
	}
	if !found && currentPort != "" {
		portOptions = append(portOptions, currentPort)
		portMap[currentPort] = currentPort
	}

	portSelect := widget.NewSelect(portOptions, nil)
	if currentDisplay != "" {
		portSelect.SetSelected(currentDisplay)
	}

	baudEntry := widget.NewEntry()
	baudEntry.SetText(strconv.Itoa(state.cfg.Serial.BaudRate))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Serial Port", Widget: portSelect},
			{Text: "Baud Rate", Widget: baudEntry},
		},
		OnSubmit: func() {
			if portSelect.Selected == "" {
				return
			}
			selectedPort := portMap[portSelect.Selected]
			if selectedPort == "" {
				selectedPort = portSelect.Selected // Fallback to selected text
			}

			// Check if port changed and device is connected
			portChanged := state.cfg.Serial.Port != selectedPort
			wasConnected := state.chain != nil && !state.useMock

			state.cfg.Serial.Port = selectedPort
			if baud, err := strconv.Atoi(baudEntry.Text); err == nil {
				state.cfg.Serial.BaudRate = baud
			}
			saveConfig(state)

			// Reconnect on the new port
			if portChanged && wasConnected {
				handleConnect(state)
				handleConnect(state)
			}
		},
	}

	return container.NewTabItem("Serial", form)
}

// createCalibrationTab creates the sensor placement and timing tab.
func createCalibrationTab(state *appState) *container.TabItem {
	cal := &state.cfg.Calibration

	diameterEntry := floatEntry(cal.SensorDiameter, "%.2f")
	zOffsetEntry := floatEntry(cal.ZOffset, "%.2f")
	angleEntry := floatEntry(cal.SensorAngle, "%.1f")
	attenuationEntry := floatEntry(cal.Attenuation, "%.3g")
	minRingEntry := widget.NewEntry()
	minRingEntry.SetText(strconv.FormatUint(uint64(cal.MinRingTime), 10))
	maxWaitEntry := widget.NewEntry()
	maxWaitEntry.SetText(strconv.FormatUint(uint64(cal.MaxWaitTime), 10))

	var trimEntries [4][2]*widget.Entry
	items := []*widget.FormItem{
		{Text: "Sensor Diameter (mm)", Widget: diameterEntry},
		{Text: "Z Offset (mm)", Widget: zOffsetEntry},
		{Text: "Sensor Angle (deg)", Widget: angleEntry},
		{Text: "Attenuation", Widget: attenuationEntry},
		{Text: "Min Ring Time (ticks)", Widget: minRingEntry},
		{Text: "Max Wait Time (ticks)", Widget: maxWaitEntry},
	}
	for i, name := range []string{"N", "E", "S", "W"} {
		trimEntries[i][0] = floatEntry(cal.Trims[i].X, "%.2f")
		trimEntries[i][1] = floatEntry(cal.Trims[i].Y, "%.2f")
		items = append(items, &widget.FormItem{
			Text:   fmt.Sprintf("%s Trim X/Y (mm)", name),
			Widget: container.NewGridWithColumns(2, trimEntries[i][0], trimEntries[i][1]),
		})
	}

	form := &widget.Form{
		Items: items,
		OnSubmit: func() {
			parseFloat(diameterEntry, &cal.SensorDiameter)
			parseFloat(zOffsetEntry, &cal.ZOffset)
			parseFloat(angleEntry, &cal.SensorAngle)
			parseFloat(attenuationEntry, &cal.Attenuation)
			parseUint32(minRingEntry, &cal.MinRingTime)
			parseUint32(maxWaitEntry, &cal.MaxWaitTime)
			for i := range trimEntries {
				parseFloat(trimEntries[i][0], &cal.Trims[i].X)
				parseFloat(trimEntries[i][1], &cal.Trims[i].Y)
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Calibration", container.NewVScroll(form))
}

// createTargetTab selects the target card and pellet.
func createTargetTab(state *appState) *container.TabItem {
	cal := &state.cfg.Calibration

	names := []string{"single"}
	types := map[string]int{"single": target.TypeSingle}
	current := "single"
	for _, t := range target.Types() {
		l := target.Layouts[t]
		names = append(names, l.Name)
		types[l.Name] = t
		if t == cal.TargetType {
			current = l.Name
		}
	}

	typeSelect := widget.NewSelect(names, nil)
	typeSelect.SetSelected(current)

	nameEntry := widget.NewEntry()
	nameEntry.SetText(state.cfg.Name)
	calibreEntry := floatEntry(cal.Calibre, "%.2f")
	ring1Entry := floatEntry(cal.Ring1, "%.2f")

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Target Name", Widget: nameEntry},
			{Text: "Target Type", Widget: typeSelect},
			{Text: "Calibre (mm)", Widget: calibreEntry},
			{Text: "10 Ring (mm)", Widget: ring1Entry},
		},
		OnSubmit: func() {
			if nameEntry.Text != "" {
				state.cfg.Name = nameEntry.Text
			}
			if t, ok := types[typeSelect.Selected]; ok {
				cal.TargetType = t
			}
			parseFloat(calibreEntry, &cal.Calibre)
			parseFloat(ring1Entry, &cal.Ring1)
			saveConfig(state)
		},
	}

	return container.NewTabItem("Target", form)
}

// createEnvironmentTab creates the range conditions tab.
func createEnvironmentTab(state *appState) *container.TabItem {
	env := &state.cfg.Environment

	temperatureEntry := floatEntry(env.TemperatureC, "%.1f")
	humidityEntry := floatEntry(env.Humidity, "%.0f")

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Temperature (°C)", Widget: temperatureEntry},
			{Text: "Humidity (%)", Widget: humidityEntry},
		},
		OnSubmit: func() {
			parseFloat(temperatureEntry, &env.TemperatureC)
			parseFloat(humidityEntry, &env.Humidity)
			saveConfig(state)
		},
	}

	return container.NewTabItem("Environment", form)
}

// createMockTab creates the Mock device configuration tab.
func createMockTab(state *appState) *container.TabItem {
	mock := &state.cfg.Mock

	shotPeriodEntry := widget.NewEntry()
	shotPeriodEntry.SetText(mock.ShotPeriod.String())
	spreadEntry := floatEntry(mock.Spread, "%.1f")
	faceEntry := floatEntry(mock.FaceProbability, "%.3f")
	missEntry := floatEntry(mock.MissProbability, "%.3f")
	seedEntry := widget.NewEntry()
	seedEntry.SetText(strconv.FormatInt(mock.Seed, 10))

	form := &widget.Form{
		Items: []*widget.FormItem{
			{Text: "Shot Period (0 = manual)", Widget: shotPeriodEntry},
			{Text: "Spread (mm)", Widget: spreadEntry},
			{Text: "Face Strike Probability", Widget: faceEntry},
			{Text: "Missed Sensor Probability", Widget: missEntry},
			{Text: "Seed", Widget: seedEntry},
		},
		OnSubmit: func() {
			if d, err := time.ParseDuration(shotPeriodEntry.Text); err == nil {
				mock.ShotPeriod = d
			}
			parseFloat(spreadEntry, &mock.Spread)
			parseFloat(faceEntry, &mock.FaceProbability)
			parseFloat(missEntry, &mock.MissProbability)
			if seed, err := strconv.ParseInt(seedEntry.Text, 10, 64); err == nil {
				mock.Seed = seed
			}
			saveConfig(state)
		},
	}

	return container.NewTabItem("Mock", form)
}

func floatEntry(v float64, format string) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(fmt.Sprintf(format, v))
	return e
}

// parseFloat stores the entry's value in dst when it parses.
func parseFloat(e *widget.Entry, dst *float64) {
	if v, err := strconv.ParseFloat(e.Text, 64); err == nil {
		*dst = v
	}
}

func parseUint32(e *widget.Entry, dst *uint32) {
	if v, err := strconv.ParseUint(e.Text, 10, 32); err == nil {
		*dst = uint32(v)
	}
}
