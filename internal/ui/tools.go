package ui

import (
	"fmt"
	"image/color"
	"log"

	"DrawingApp/internal/state"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ImageSource supplies the bytes for a new photo.
type ImageSource func() ([]byte, error)

// BundledImage returns the fyne logo, so photos work without a file picker.
func BundledImage() ([]byte, error) {
	return theme.FyneLogo().Content(), nil
}

// PropertyPanel is the side panel: add buttons, the selected shape's
// properties and the color/alpha controls.
type PropertyPanel struct {
	plane  *state.Plane
	images ImageSource

	idLabel    *widget.Label
	colorLabel *widget.Label
	alphaLabel *widget.Label
	swatch     *canvas.Rectangle

	colorButton *widget.Button
	alphaUp     *widget.Button
	alphaDown   *widget.Button

	content fyne.CanvasObject
}

var _ state.Observer = (*PropertyPanel)(nil)

func NewPropertyPanel(plane *state.Plane, images ImageSource) *PropertyPanel {
	p := &PropertyPanel{
		plane:      plane,
		images:     images,
		idLabel:    widget.NewLabel(""),
		colorLabel: widget.NewLabel(""),
		alphaLabel: widget.NewLabel(""),
		swatch:     canvas.NewRectangle(color.Transparent),
	}
	p.swatch.SetMinSize(fyne.NewSize(32, 32))
	p.swatch.StrokeColor = color.Gray{Y: 150}
	p.swatch.StrokeWidth = 1

	addRect := widget.NewButtonWithIcon("Rectangle", theme.ContentAddIcon(), func() { plane.AddRectangle() })
	addPhoto := widget.NewButtonWithIcon("Photo", theme.FileImageIcon(), p.addPhoto)
	p.colorButton = widget.NewButton("Change color", plane.ChangeSelectedColor)
	p.alphaUp = widget.NewButtonWithIcon("", theme.ContentAddIcon(), plane.IncreaseSelectedAlpha)
	p.alphaDown = widget.NewButtonWithIcon("", theme.ContentRemoveIcon(), plane.DecreaseSelectedAlpha)

	p.content = container.NewVBox(
		widget.NewLabelWithStyle("Add", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWithColumns(2, addRect, addPhoto),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Selection", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		p.idLabel,
		container.NewHBox(p.swatch, p.colorLabel),
		p.colorButton,
		container.NewHBox(widget.NewLabel("Alpha"), p.alphaDown, p.alphaLabel, p.alphaUp),
	)
	return p
}

// Seed shows the selection the plane had when the panel subscribed.
func (p *PropertyPanel) Seed(state.Snapshot) { p.refresh() }

func (p *PropertyPanel) Content() fyne.CanvasObject { return p.content }

func (p *PropertyPanel) addPhoto() {
	data, err := p.images()
	if err != nil {
		log.Printf("[UI] no image for photo: %v", err)
		return
	}
	p.plane.AddPhoto(data)
}

func (p *PropertyPanel) OnShapeAdded(state.Shape) {}

func (p *PropertyPanel) OnSelectionChanged(_, _ string) { fyne.Do(p.refresh) }

func (p *PropertyPanel) OnColorChanged(*state.Rectangle) { fyne.Do(p.refresh) }

func (p *PropertyPanel) OnAlphaChanged(state.Shape) { fyne.Do(p.refresh) }

// refresh re-reads the selection from the plane.
func (p *PropertyPanel) refresh() {
	sel, ok := p.plane.Selected()
	if !ok {
		p.idLabel.SetText("Nothing selected")
		p.colorLabel.SetText("-")
		p.alphaLabel.SetText("-")
		p.swatch.FillColor = color.Transparent
		p.swatch.Refresh()
		p.colorButton.Disable()
		p.alphaUp.Disable()
		p.alphaDown.Disable()
		return
	}

	p.idLabel.SetText(sel.ID())
	p.alphaLabel.SetText(fmt.Sprintf("%.1f", sel.Alpha()))
	p.alphaUp.Enable()
	p.alphaDown.Enable()

	switch s := sel.(type) {
	case *state.Rectangle:
		p.colorLabel.SetText(s.Color().String())
		p.swatch.FillColor = fillColor(s.Color(), 1)
		p.colorButton.Enable()
	case *state.Photo:
		p.colorLabel.SetText("photo")
		p.swatch.FillColor = color.Transparent
		p.colorButton.Disable()
	}
	p.swatch.Refresh()
}
