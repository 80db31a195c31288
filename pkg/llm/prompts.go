package llm

import (
	"fmt"
	"strings"
	"time"
)

// productPrompt asks the model to pull name, category and quantity
// out of noisy label OCR. German vocabulary is translated
// heuristically by the model; the deterministic keyword table in
// category.go has the final word on the category either way.
func productPrompt(ocrText string) string {
	return fmt.Sprintf(`IMPORTANT: This is a NEW product analysis. Forget any previous products.

I will show you OCR text from a product label. The text may be in GERMAN or English.

OCR Text from Product Label:
'''
%s
'''

CRITICAL: If you see German words, translate them:
- REIS = Rice
- BASMATI-REIS or BASMATI REIS = Basmati Rice
- KAFFEE = Coffee
- MILCH = Milk
- ZUCKER = Sugar

Product Type Keywords:
- Rice: RICE, REIS, BASMATI, JASMINE, BASMATI-REIS
- Coffee: COFFEE, KAFFEE, ESPRESSO
- Tea: TEA, TEE, CHAI
- Spice: MASALA, CURRY, GEWÜRZ
- Dairy: MILK, MILCH, YOGURT, KÄSE

Task:
1. Look at the OCR text - do you see "BASMATI" or "REIS"?
2. If YES -> name="Basmati Reis", category="Rice/Grains"
3. Find quantity like "1kg", "500g", "1 kg", "500 g"

Return ONLY JSON:
{
  "name": "product name",
  "category": "category",
  "quantity": "amount or Unknown"
}

JSON:`, ocrText)
}

// expiryPrompt is the fallback when the deterministic date parser
// found nothing in the stamp text.
func expiryPrompt(ocrText string) string {
	return fmt.Sprintf(`Extract expiry date from OCR text.

OCR Text:
%s

Patterns to look for:
- 02.2027 -> February 2027
- EXP: OCT-2025 -> October 2025
- MHD: 05.2026 -> May 2026
- DEC 2027 -> December 2027

IMPORTANT: If only month and year are given (e.g., "OCT 2025"), use the LAST day of that month.

Examples:
- OCT 2025 -> 31-10-2025 (October has 31 days)
- FEB 2026 -> 28-02-2026 (February has 28 days in non-leap year)
- APR 2027 -> 30-04-2027 (April has 30 days)

Return ONLY valid JSON:
{
  "expiry": "DD-MM-YYYY"
}

JSON:`, ocrText)
}

// shelfLifePrompt estimates shelf life for fresh produce, which has
// no printed expiry at all.
func shelfLifePrompt(name, category string, quantity int, now time.Time) string {
	return fmt.Sprintf(`Estimate the typical shelf life for this fresh produce item when stored properly.

Product: %s
Category: %s
Quantity: %d

Provide a CONSERVATIVE estimate (minimum days before spoiling when refrigerated if needed).

Common guidelines:
- Leafy Greens: 3-5 days
- Root Vegetables (onions, potatoes, carrots): 7-21 days
- Tomatoes: 5-7 days
- Fruits (apples, oranges): 5-10 days
- Berries: 3-5 days
- Herbs: 5-7 days

Today is %s.

Return ONLY valid JSON:
{
  "days": number,
  "expiry": "DD-MM-YYYY",
  "storage_tip": "brief storage advice"
}

JSON:`, name, category, quantity, now.Format("2006-01-02"))
}

// planPrompt synthesizes a usage plan from three expert perspectives
// over the current inventory state.
func planPrompt(req PlanRequest, now time.Time) string {
	others := "No other products"
	if len(req.OtherProducts) > 0 {
		others = strings.Join(req.OtherProducts, ", ")
	}
	equipment := "only basic tools"
	if len(req.Equipment) > 0 {
		equipment = strings.Join(req.Equipment, ", ")
	}
	return fmt.Sprintf(`You are simulating THREE different expert perspectives to create the best usage plan.

Product: %s
Category: %s
Quantity: %s
Expiry: %s
Current Date: %s
Other Products: %s

EXPERT 1 - Nutrition Expert:
Focus on maximizing freshness and nutritional value. Prioritize using fresh produce quickly.

EXPERT 2 - Budget Optimizer:
Focus on preventing waste and using expensive items before they expire. Consider cost efficiency.

EXPERT 3 - Recipe Matcher:
Focus on creating delicious combinations with other available products. Make meal planning easy.

Now synthesize their advice into ONE unified usage plan that:
- Uses equipment: %s
- Matches skill level: %s
- Provides 3-5 specific dates with meal ideas
- Explains which expert perspective influenced each suggestion

Format:
[Date]: Meal/dish name
- Why: [Which expert perspective - nutrition/budget/recipe]
- Combine with: [other products if any]
- Method: Brief prep note

Your plan:`,
		req.Product, req.Category, req.Quantity, req.Expiry,
		now.Format("2006-01-02"), others, equipment, req.Skill)
}
