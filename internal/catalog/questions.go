package catalog

// retail_sales1 holds one row per order (Region, City, Segment, Order_date, Profit,
// Cost_price); retail_sales2 holds the order lines (Product_id, Sale_price, Quantity,
// Discount, Discount_percent, Category, Sub_category). Both are keyed by "Order_id".

var existingQuestions = []Question{
	{
		ID: "Find top 10 highest revenue generating products",
		Statement: `
			SELECT "Product_id", SUM("Sale_price" * "Quantity") AS total_revenue
			FROM "retail_sales2"
			GROUP BY "Product_id"
			ORDER BY total_revenue DESC
			LIMIT 10;`,
		Columns: []string{"Product_id", "total_revenue"},
	},
	{
		ID: "Find the top 5 cities with the highest profit margins",
		Statement: `
			SELECT "City", SUM("Profit") / SUM("Cost_price") AS profit_margin
			FROM "retail_sales1" AS rs1
			JOIN "retail_sales2" AS rs2 ON rs1."Order_id" = rs2."Order_id"
			GROUP BY "City"
			ORDER BY profit_margin DESC
			LIMIT 5;`,
		Columns: []string{"City", "profit_margin"},
	},
	{
		ID: "Calculate the total discount given for each category",
		Statement: `
			SELECT "Category", SUM("Discount") AS total_discount
			FROM "retail_sales2" AS rs2
			JOIN "retail_sales1" AS rs1 ON rs2."Order_id" = rs1."Order_id"
			GROUP BY "Category"
			ORDER BY total_discount DESC;`,
		Columns: []string{"Category", "total_discount"},
	},
	{
		ID: "Find the average sale price per product category",
		Statement: `
			SELECT "Sub_category", AVG("Sale_price") AS avg_sale_price
			FROM "retail_sales2"
			GROUP BY "Sub_category"
			ORDER BY avg_sale_price DESC;`,
		Columns: []string{"Sub_category", "avg_sale_price"},
	},
	{
		ID: "Find the region with the highest average sale price",
		Statement: `
			SELECT "Region", AVG("Sale_price") AS avg_sale_price
			FROM "retail_sales1" AS rs1
			JOIN "retail_sales2" AS rs2 ON rs1."Order_id" = rs2."Order_id"
			GROUP BY "Region"
			ORDER BY avg_sale_price DESC
			LIMIT 1;`,
		Columns: []string{"Region", "avg_sale_price"},
	},
	{
		ID: "Find the total profit per category",
		Statement: `
			SELECT "Category", SUM("Profit") AS total_profit
			FROM "retail_sales1" AS rs1
			JOIN "retail_sales2" AS rs2 ON rs1."Order_id" = rs2."Order_id"
			GROUP BY "Category"
			ORDER BY total_profit DESC;`,
		Columns: []string{"Category", "total_profit"},
	},
	{
		ID: "Identify the top 3 segments with the highest quantity of orders",
		Statement: `
			SELECT "Segment", SUM("Quantity") AS total_quantity
			FROM "retail_sales1" AS rs1
			JOIN "retail_sales2" AS rs2 ON rs1."Order_id" = rs2."Order_id"
			GROUP BY "Segment"
			ORDER BY total_quantity DESC
			LIMIT 3;`,
		Columns: []string{"Segment", "total_quantity"},
	},
	{
		ID: "Determine the average discount percentage given per region",
		Statement: `
			SELECT "Region", AVG("Discount_percent") AS avg_discount_percentage
			FROM "retail_sales1" AS rs1
			JOIN "retail_sales2" AS rs2 ON rs1."Order_id" = rs2."Order_id"
			GROUP BY "Region"
			ORDER BY avg_discount_percentage DESC;`,
		Columns: []string{"Region", "avg_discount_percentage"},
	},
	{
		ID: "Find the product category with the highest total profit",
		Statement: `
			SELECT "Category", SUM("Profit") AS total_profit
			FROM "retail_sales1" AS rs1
			JOIN "retail_sales2" AS rs2 ON rs1."Order_id" = rs2."Order_id"
			GROUP BY "Category"
			ORDER BY total_profit DESC
			LIMIT 1;`,
		Columns: []string{"Category", "total_profit"},
	},
	{
		ID: "Calculate the total revenue generated per year",
		Statement: `
			SELECT EXTRACT(YEAR FROM TO_DATE("Order_date", 'YYYY-MM-DD')) AS year,
				SUM("Sale_price" * "Quantity") AS total_revenue
			FROM "retail_sales1" AS rs1
			JOIN "retail_sales2" AS rs2 ON rs1."Order_id" = rs2."Order_id"
			GROUP BY year
			ORDER BY year;`,
		Columns: []string{"year", "total_revenue"},
	},
}

var newQuestions = []Question{
	{
		ID: "Find the top 3 products with the highest average discount percentage",
		Statement: `
			SELECT "Product_id", AVG("Discount_percent") AS avg_discount
			FROM "retail_sales2"
			GROUP BY "Product_id"
			ORDER BY avg_discount DESC
			LIMIT 3;`,
		Columns: []string{"Product_id", "avg_discount"},
	},
	{
		ID: "Find regions where the total revenue exceeds $1,000,000",
		Statement: `
			SELECT "Region", SUM("Sale_price" * "Quantity") AS total_revenue
			FROM "retail_sales1" AS rs1
			JOIN "retail_sales2" AS rs2 ON rs1."Order_id" = rs2."Order_id"
			GROUP BY "Region"
			HAVING SUM("Sale_price" * "Quantity") > 1000000
			ORDER BY total_revenue DESC;`,
		Columns: []string{"Region", "total_revenue"},
	},
	{
		ID: "Find the top 5 profitable products in each category",
		Statement: `
			WITH ranked_products AS (
				SELECT
					"Category",
					"Product_id",
					SUM("Profit") AS total_profit,
					ROW_NUMBER() OVER (PARTITION BY "Category" ORDER BY SUM("Profit") DESC) AS rank
				FROM "retail_sales2" AS rs2
				JOIN "retail_sales1" AS rs1 ON rs2."Order_id" = rs1."Order_id"
				GROUP BY "Category", "Product_id"
			)
			SELECT "Category", "Product_id", total_profit
			FROM ranked_products
			WHERE rank <= 5;`,
		Columns: []string{"Category", "Product_id", "total_profit"},
	},
	{
		ID: "Find categories with an average sale price above $500",
		Statement: `
			SELECT "Category", AVG("Sale_price") AS avg_sale_price
			FROM "retail_sales2" AS rs2
			JOIN "retail_sales1" AS rs1 ON rs2."Order_id" = rs1."Order_id"
			GROUP BY "Category"
			HAVING AVG("Sale_price") > 500
			ORDER BY avg_sale_price DESC;`,
		Columns: []string{"Category", "avg_sale_price"},
	},
	{
		ID: "Rank the top 5 cities with the highest quantity of orders",
		Statement: `
			SELECT
				"City",
				SUM("Quantity") AS total_quantity,
				ROW_NUMBER() OVER (ORDER BY SUM("Quantity") DESC) AS rank
			FROM "retail_sales1" AS rs1
			JOIN "retail_sales2" AS rs2 ON rs1."Order_id" = rs2."Order_id"
			GROUP BY "City"
			ORDER BY rank
			LIMIT 5;`,
		Columns: []string{"City", "total_quantity", "rank"},
	},
	{
		ID: "Find the regions where the average discount percentage is greater than 20%",
		Statement: `
			SELECT "Region", AVG("Discount_percent") AS avg_discount
			FROM "retail_sales1" AS rs1
			JOIN "retail_sales2" AS rs2 ON rs1."Order_id" = rs2."Order_id"
			GROUP BY "Region"
			HAVING AVG("Discount_percent") > 20
			ORDER BY avg_discount DESC;`,
		Columns: []string{"Region", "avg_discount"},
	},
	{
		ID: "Rank the top 10 products by total revenue",
		Statement: `
			SELECT
				"Product_id",
				SUM("Sale_price" * "Quantity") AS total_revenue,
				ROW_NUMBER() OVER (ORDER BY SUM("Sale_price" * "Quantity") DESC) AS rank
			FROM "retail_sales2"
			GROUP BY "Product_id"
			ORDER BY rank
			LIMIT 10;`,
		Columns: []string{"Product_id", "total_revenue", "rank"},
	},
	{
		ID: "Find the top 3 segments with the highest profit per order",
		Statement: `
			SELECT
				"Segment",
				AVG("Profit") AS avg_profit_per_order,
				ROW_NUMBER() OVER (ORDER BY AVG("Profit") DESC) AS rank
			FROM "retail_sales1" AS rs1
			JOIN "retail_sales2" AS rs2 ON rs1."Order_id" = rs2."Order_id"
			GROUP BY "Segment"
			ORDER BY rank
			LIMIT 3;`,
		Columns: []string{"Segment", "avg_profit_per_order", "rank"},
	},
	{
		ID: "Find subcategories where the total discount exceeds $10,000",
		Statement: `
			SELECT "Sub_category", SUM("Discount") AS total_discount
			FROM "retail_sales2"
			GROUP BY "Sub_category"
			HAVING SUM("Discount") > 10000
			ORDER BY total_discount DESC;`,
		Columns: []string{"Sub_category", "total_discount"},
	},
	{
		ID: "Rank the product categories by total profit",
		Statement: `
			SELECT
				"Category",
				SUM("Profit") AS total_profit,
				ROW_NUMBER() OVER (ORDER BY SUM("Profit") DESC) AS rank
			FROM "retail_sales2" AS rs2
			JOIN "retail_sales1" AS rs1 ON rs2."Order_id" = rs1."Order_id"
			GROUP BY "Category"
			ORDER BY rank;`,
		Columns: []string{"Category", "total_profit", "rank"},
	},
}
