package peppol

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/facturia/facturia-api/internal/application/billing"
)

// Namespaces UBL 2.1.
const (
	nsInvoice    = "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2"
	nsCreditNote = "urn:oasis:names:specification:ubl:schema:xsd:CreditNote-2"
	nsCac        = "urn:oasis:names:specification:ubl:schema:xsd:CommonAggregateComponents-2"
	nsCbc        = "urn:oasis:names:specification:ubl:schema:xsd:CommonBasicComponents-2"

	customizationID = "urn:cen.eu:en16931:2017#compliant#urn:fdc:peppol.eu:2017:poacc:billing:3.0"
	profileID       = "urn:fdc:peppol.eu:2017:poacc:billing:01:1.0"
)

// Categorías fiscales UNCL5305 usadas en las bandas.
var taxCategoryCodes = map[string]string{
	"standard": "S",
	"zero":     "Z",
	"exempt":   "E",
}

// BuildUBL serializa el payload como documento UBL 2.1 (Invoice o CreditNote,
// perfil BIS Billing 3.0). El documento va sin firmar: la firma la aplica el
// access point.
func BuildUBL(payload *billing.DocumentPayload) ([]byte, error) {
	if payload == nil {
		return nil, fmt.Errorf("ubl: payload requerido")
	}

	rootName, rootNS, lineName, quantityName := "Invoice", nsInvoice, "InvoiceLine", "InvoicedQuantity"
	if payload.DocumentType == "creditnote" {
		rootName, rootNS, lineName, quantityName = "CreditNote", nsCreditNote, "CreditNoteLine", "CreditedQuantity"
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement(rootName)
	root.CreateAttr("xmlns", rootNS)
	root.CreateAttr("xmlns:cac", nsCac)
	root.CreateAttr("xmlns:cbc", nsCbc)

	root.CreateElement("cbc:CustomizationID").SetText(customizationID)
	root.CreateElement("cbc:ProfileID").SetText(profileID)
	root.CreateElement("cbc:ID").SetText(payload.Number)
	root.CreateElement("cbc:IssueDate").SetText(payload.IssueDate.Format("2006-01-02"))
	root.CreateElement("cbc:DocumentCurrencyCode").SetText(payload.Currency)
	if payload.Note != "" {
		root.CreateElement("cbc:Note").SetText(payload.Note)
	}

	// cac:AccountingCustomerParty con el identificador de ruteo principal
	customer := root.CreateElement("cac:AccountingCustomerParty")
	party := customer.CreateElement("cac:Party")
	if len(payload.Routing) > 0 {
		endpoint := party.CreateElement("cbc:EndpointID")
		endpoint.CreateAttr("schemeID", payload.Routing[0].Scheme)
		endpoint.SetText(payload.Routing[0].ID)
	}
	partyName := party.CreateElement("cac:PartyName")
	partyName.CreateElement("cbc:Name").SetText(payload.Buyer.Name)
	address := party.CreateElement("cac:PostalAddress")
	if payload.Buyer.Street != "" {
		address.CreateElement("cbc:StreetName").SetText(payload.Buyer.Street)
	}
	if payload.Buyer.City != "" {
		address.CreateElement("cbc:CityName").SetText(payload.Buyer.City)
	}
	if payload.Buyer.Zip != "" {
		address.CreateElement("cbc:PostalZone").SetText(payload.Buyer.Zip)
	}
	if payload.Buyer.CountryCode != "" {
		country := address.CreateElement("cac:Country")
		country.CreateElement("cbc:IdentificationCode").SetText(payload.Buyer.CountryCode)
	}
	if payload.Buyer.VATNumber != "" {
		taxScheme := party.CreateElement("cac:PartyTaxScheme")
		taxScheme.CreateElement("cbc:CompanyID").SetText(payload.Buyer.VATNumber)
		taxScheme.CreateElement("cac:TaxScheme").CreateElement("cbc:ID").SetText("VAT")
	}

	// cac:PaymentMeans (transferencia al IBAN del emisor)
	if payload.PaymentMeans != nil {
		means := root.CreateElement("cac:PaymentMeans")
		means.CreateElement("cbc:PaymentMeansCode").SetText("30") // credit transfer
		account := means.CreateElement("cac:PayeeFinancialAccount")
		account.CreateElement("cbc:ID").SetText(payload.PaymentMeans.IBAN)
	}

	// cac:TaxTotal con una banda por grupo de tasa
	taxTotalEl := root.CreateElement("cac:TaxTotal")
	taxSum := decimal.Zero
	for _, sub := range payload.TaxSubtotals {
		taxSum = taxSum.Add(sub.TaxAmount)
	}
	amountEl := taxTotalEl.CreateElement("cbc:TaxAmount")
	amountEl.CreateAttr("currencyID", payload.Currency)
	amountEl.SetText(taxSum.StringFixed(2))
	for _, sub := range payload.TaxSubtotals {
		subEl := taxTotalEl.CreateElement("cac:TaxSubtotal")
		taxableEl := subEl.CreateElement("cbc:TaxableAmount")
		taxableEl.CreateAttr("currencyID", payload.Currency)
		taxableEl.SetText(sub.TaxableAmount.StringFixed(2))
		taxAmountEl := subEl.CreateElement("cbc:TaxAmount")
		taxAmountEl.CreateAttr("currencyID", payload.Currency)
		taxAmountEl.SetText(sub.TaxAmount.StringFixed(2))
		category := subEl.CreateElement("cac:TaxCategory")
		category.CreateElement("cbc:ID").SetText(taxCategoryCode(sub.Category))
		category.CreateElement("cbc:Percent").SetText(sub.Percentage.StringFixed(2))
		category.CreateElement("cac:TaxScheme").CreateElement("cbc:ID").SetText("VAT")
	}

	// cac:LegalMonetaryTotal
	lineSum := decimal.Zero
	for _, line := range payload.Lines {
		lineSum = lineSum.Add(line.Amount)
	}
	monetary := root.CreateElement("cac:LegalMonetaryTotal")
	lineExtEl := monetary.CreateElement("cbc:LineExtensionAmount")
	lineExtEl.CreateAttr("currencyID", payload.Currency)
	lineExtEl.SetText(lineSum.StringFixed(2))
	payableEl := monetary.CreateElement("cbc:PayableAmount")
	payableEl.CreateAttr("currencyID", payload.Currency)
	payableEl.SetText(payload.Total.StringFixed(2))

	// Líneas
	for i, line := range payload.Lines {
		lineEl := root.CreateElement("cac:" + lineName)
		lineEl.CreateElement("cbc:ID").SetText(fmt.Sprintf("%d", i+1))
		qtyEl := lineEl.CreateElement("cbc:" + quantityName)
		qtyEl.CreateAttr("unitCode", "C62") // unidad genérica
		qtyEl.SetText("1")
		lineAmountEl := lineEl.CreateElement("cbc:LineExtensionAmount")
		lineAmountEl.CreateAttr("currencyID", payload.Currency)
		lineAmountEl.SetText(line.Amount.StringFixed(2))
		item := lineEl.CreateElement("cac:Item")
		item.CreateElement("cbc:Name").SetText(line.Description)
		classified := item.CreateElement("cac:ClassifiedTaxCategory")
		classified.CreateElement("cbc:ID").SetText(taxCategoryCode(line.TaxCategory))
		classified.CreateElement("cbc:Percent").SetText(line.TaxPercentage.StringFixed(2))
		classified.CreateElement("cac:TaxScheme").CreateElement("cbc:ID").SetText("VAT")
	}

	doc.Indent(2)
	return doc.WriteToBytes()
}

func taxCategoryCode(category string) string {
	if code, ok := taxCategoryCodes[category]; ok {
		return code
	}
	return "S"
}
