package types

import (
	"fmt"
	"sort"
	"strings"
)

// BCFLAG identifies the kind of boundary condition attached to a mesh side
type BCFLAG uint8

const (
	BC_None BCFLAG = iota
	BC_Dirichlet
	BC_Inlet
	BC_Neumann
	BC_Periodic
)

var BCNameMap = map[string]BCFLAG{
	"none":      BC_None,
	"dirichlet": BC_Dirichlet,
	"fixed":     BC_Dirichlet,
	"inlet":     BC_Inlet,
	"inflow":    BC_Inlet,
	"ramp":      BC_Inlet,
	"neumann":   BC_Neumann,
	"neuman":    BC_Neumann,
	"outflow":   BC_Neumann,
	"periodic":  BC_Periodic,
}

var BCPrintNames = []string{
	"None",
	"Dirichlet",
	"Inlet",
	"Neumann",
	"Periodic",
}

func (bcf BCFLAG) String() string {
	if int(bcf) < len(BCPrintNames) {
		return BCPrintNames[bcf]
	}
	return fmt.Sprintf("BCFLAG(%d)", uint8(bcf))
}

func NewBCFLAG(label string) (bcf BCFLAG, err error) {
	var (
		ok bool
	)
	if bcf, ok = BCNameMap[strings.ToLower(strings.TrimSpace(label))]; !ok {
		err = &ConfigurationError{
			Parameter: "BCs",
			Reason: fmt.Sprintf("unknown boundary condition %q, must be one of %s",
				label, strings.Join(BCLabels(), ", ")),
		}
	}
	return
}

// BCLabels returns the accepted boundary condition names in sorted order
func BCLabels() (labels []string) {
	for key := range BCNameMap {
		labels = append(labels, key)
	}
	sort.Strings(labels)
	return
}
