package advisor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/andresuchdata/reorder-advisor/internal/domain"
	"github.com/andresuchdata/reorder-advisor/internal/forecast"
	"github.com/invopop/jsonschema"
)

// replyPayload documents the reply shape requested from the reasoning service.
// It is only used to render the schema; replies are decoded field by field.
type replyPayload struct {
	ReorderRecommendation  string `json:"reorderRecommendation" jsonschema:"enum=yes,enum=no,enum=monitor,description=Whether to place a reorder now"`
	SuggestedOrderQuantity int    `json:"suggestedOrderQuantity" jsonschema:"minimum=0,description=Units to order"`
	StockoutRisk           string `json:"stockoutRisk" jsonschema:"enum=low,enum=medium,enum=high"`
	DaysUntilStockout      int    `json:"daysUntilStockout" jsonschema:"minimum=0,description=Days until current stock runs out"`
	Reasoning              string `json:"reasoning" jsonschema:"description=Brief explanation"`
}

var replySchema = renderReplySchema()

func renderReplySchema() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(&replyPayload{})
	// The version URI only adds noise to the prompt.
	schema.Version = ""

	b, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		panic(fmt.Sprintf("advisor: render reply schema: %v", err))
	}
	return string(b)
}

func writeProductFacts(sb *strings.Builder, in domain.ForecastInput, skuLabel string, windowDays int) {
	fmt.Fprintf(sb, "Product: %s (%s%s)\n", in.ProductName, skuLabel, in.SKU)
	fmt.Fprintf(sb, "Cost of Goods Sold (COGS): $%s\n", in.UnitCost.StringFixed(2))
	fmt.Fprintf(sb, "Lead Time: %d days\n", in.LeadTimeDays)
	fmt.Fprintf(sb, "Current Stock: %d units in %s\n\n", in.Stock.Quantity, in.Stock.Location)

	total := in.TotalUnitsSold()
	fmt.Fprintf(sb, "Recent Sales (last %d days):\n", windowDays)
	fmt.Fprintf(sb, "Total units sold: %d\n", total)
	// Date-span average, identical to the forecast calculator's.
	fmt.Fprintf(sb, "Average daily sales: %s\n\n", forecast.AverageDailySales(in.Sales).StringFixed(2))
}

func buildAnalysisPrompt(in domain.ForecastInput, windowDays int) string {
	var sb strings.Builder
	sb.WriteString("Analyze the following product data and provide recommendations in JSON format.\n\n")
	writeProductFacts(&sb, in, "", windowDays)

	sb.WriteString("Reply with a single JSON object matching this JSON Schema:\n")
	sb.WriteString(replySchema)
	sb.WriteString("\n\nOnly return valid JSON, no additional text.")
	return sb.String()
}

func buildProductContext(in domain.ForecastInput, windowDays int) string {
	var sb strings.Builder
	sb.WriteString("You are an AI inventory management advisor. Here is the product information:\n\n")
	writeProductFacts(&sb, in, "SKU: ", windowDays)

	sb.WriteString("Please provide helpful, detailed advice about inventory management for this product. ")
	sb.WriteString("Be conversational and explain your reasoning clearly.")
	return sb.String()
}

func acknowledgement(productName string) string {
	return "I understand the product data. How can I help you with inventory decisions for " + productName + "?"
}
