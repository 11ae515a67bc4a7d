package models

func (i InventoryItem) GetCompanyId() string {
	return i.CompanyId
}

func (t InventoryTransaction) GetCompanyId() string {
	return t.CompanyId
}

func (o Order) GetCompanyId() string {
	return o.CompanyId
}

func (b BillOfMaterial) GetCompanyId() string {
	return b.CompanyId
}

func (c Customer) GetCompanyId() string {
	return c.CompanyId
}
