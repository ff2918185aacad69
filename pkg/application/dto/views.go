package dto

import (
	"fmt"
	"strings"
	"time"
)

// View names one of the four result sets of a run
type View int

const (
	ViewPlan View = iota
	ViewErrors
	ViewDiscontinue
	ViewSubmittable
)

// AllViews lists the views in output order
var AllViews = []View{ViewPlan, ViewErrors, ViewDiscontinue, ViewSubmittable}

// String method for View enum
func (v View) String() string {
	switch v {
	case ViewPlan:
		return "plan"
	case ViewErrors:
		return "errors"
	case ViewDiscontinue:
		return "discontinue"
	case ViewSubmittable:
		return "submittable"
	default:
		return "Unknown"
	}
}

// FileStem is the base name downstream consumers expect for the view
func (v View) FileStem() string {
	switch v {
	case ViewPlan:
		return "Planificacion_Pedidos"
	case ViewErrors:
		return "Errores_CajasCapas"
	case ViewDiscontinue:
		return "Productos_Para_Descatalogar"
	case ViewSubmittable:
		return "Pedido_para_SAP"
	default:
		return "Unknown"
	}
}

// FileName builds the timestamped file name for the view
func (v View) FileName(generatedAt time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", v.FileStem(), generatedAt.Format(TimestampLayout), ext)
}

// TimestampLayout is minute precision, no seconds
const TimestampLayout = "2006-01-02_15-04"

// ParseView parses a view name
func ParseView(s string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "plan":
		return ViewPlan, nil
	case "errors":
		return ViewErrors, nil
	case "discontinue":
		return ViewDiscontinue, nil
	case "submittable", "sap":
		return ViewSubmittable, nil
	default:
		return ViewPlan, fmt.Errorf("invalid view: %s (expected: plan, errors, discontinue, or submittable)", s)
	}
}
