package ocr

import "facturas/internal/port"

// BuildInvoicePrompt returns the extraction prompt for Argentine supplier invoices.
func BuildInvoicePrompt(settings port.OCRSettings) string {
	lang := "Spanish"
	if settings.Language == "eng" {
		lang = "English"
	}
	return `You are an invoice data extraction assistant. The image is an Argentine supplier invoice ("factura"), most likely written in ` + lang + `.

IMPORTANT INSTRUCTIONS:
- Amounts use Argentine notation: "." groups thousands and "," marks decimals ("1.822,50" is 1822.50). Return plain JSON numbers.
- "type" is "A" for a Factura A that itemizes IVA, otherwise "X".
- "amount" is the net amount taxed at 21% IVA; "amount_105" is the net amount taxed at 10.5% IVA.
- "has_ii_bb" is true when the invoice shows an Ingresos Brutos (II.BB / IIBB) perception.
- Normalize the invoice date to YYYY-MM-DD.
- Use null for anything you cannot read. Never guess a value.

Return ONLY valid JSON with no markdown formatting, no code fences, no explanation.

The JSON object must follow this schema:
{
  "invoiceData": {
    "date": "YYYY-MM-DD",
    "type": "A",
    "amount": 0,
    "amount_105": 0,
    "total_neto": 0,
    "vat_amount_21": 0,
    "vat_amount_105": 0,
    "has_ii_bb": false,
    "ii_bb_amount": 0,
    "total_amount": 0
  },
  "supplierInfo": {
    "name": "",
    "cuit": "XX-XXXXXXXX-X"
  },
  "confidence": 0,
  "extractedText": ""
}

"confidence" is your overall confidence in the extracted fields, from 0 to 100.
"extractedText" is the full text you read on the invoice.`
}
