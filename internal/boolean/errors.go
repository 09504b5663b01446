package boolean

import (
	"fmt"

	"polyedit/internal/domainerr"
)

var (
	errCollinear  = fmt.Errorf("%w: polygons overlap along a collinear edge segment", domainerr.ErrDomain)
	errTouching   = fmt.Errorf("%w: polygons touch at a shared vertex or edge", domainerr.ErrDomain)
	errDegenerate = fmt.Errorf("%w: coincident intersection points on one edge", domainerr.ErrDomain)
)
