package converter

// New-order export columns (SAP delivery order report).
const (
	ColDONumber            = "DO Number"
	ColDocumentDate        = "Document Date"
	ColPlant               = "Plant"
	ColShipTo              = "Ship To"
	ColMaterial            = "Material"
	ColMaterialDescription = "Material Description"
	ColQtyKemasan          = "Qty Kemasan"
	ColQtySOInSU           = "Qty SO in SU"
	ColQtySOInBU           = "Qty SO in BU"
)

// Update sheet columns.
const (
	ColUpdateDONo                = "DO NO"
	ColUpdateMaterial            = "MATERIAL"
	ColUpdateDOItem              = "DO ITEM"
	ColUpdateMaterialDescription = "MATERIAL DESCRIPTION"
	ColUpdateKodeKarung          = "KODE KARUNG"
	ColUpdateQtyKemasan          = "QTY KEMASAN"
	ColUpdateKgKemasan           = "KG KEMASAN"
)

// newOrderColumns must be present in a new-order file. Qty Kemasan is
// optional.
var newOrderColumns = []string{
	ColDONumber,
	ColDocumentDate,
	ColPlant,
	ColShipTo,
	ColMaterial,
	ColMaterialDescription,
	ColQtySOInSU,
	ColQtySOInBU,
}

// updateColumns must be present in an update file.
var updateColumns = []string{
	ColUpdateDONo,
	ColUpdateMaterial,
	ColUpdateDOItem,
	ColUpdateMaterialDescription,
	ColUpdateKodeKarung,
	ColUpdateQtyKemasan,
	ColUpdateKgKemasan,
}
