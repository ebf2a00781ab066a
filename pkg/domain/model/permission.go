package model

import "github.com/secmon-lab/magento-oaa/pkg/domain/types"

// PermissionCategory groups ACL resources of the Magento B2B catalog
type PermissionCategory string

const (
	CategoryBase           PermissionCategory = "base"
	CategorySales          PermissionCategory = "sales"
	CategoryQuotes         PermissionCategory = "quotes"
	CategoryPurchaseOrders PermissionCategory = "purchase_orders"
	CategoryCompany        PermissionCategory = "company"
	CategoryUsers          PermissionCategory = "users"
	CategoryCredit         PermissionCategory = "credit"
)

// OAAPermission returns the OAA permission type a category maps to
func (c PermissionCategory) OAAPermission() types.OAAPermission {
	switch c {
	case CategorySales, CategoryQuotes, CategoryPurchaseOrders, CategoryUsers:
		return types.OAADataWrite
	default:
		return types.OAADataRead
	}
}

// ACLPermission is one entry of the Magento B2B ACL catalog
type ACLPermission struct {
	ResourceID  string
	DisplayName string
	Category    PermissionCategory
}

var aclCatalog = []ACLPermission{
	{"Magento_Company::index", "All Access", CategoryBase},

	{"Magento_Sales::all", "Sales", CategorySales},
	{"Magento_Sales::place_order", "Allow Checkout", CategorySales},
	{"Magento_Sales::payment_account", "Pay On Account", CategorySales},
	{"Magento_Sales::view_orders", "View Orders", CategorySales},
	{"Magento_Sales::view_orders_sub", "View Subordinate Orders", CategorySales},

	{"Magento_NegotiableQuote::all", "Quotes", CategoryQuotes},
	{"Magento_NegotiableQuote::view_quotes", "View Quotes", CategoryQuotes},
	{"Magento_NegotiableQuote::manage", "Manage Quotes", CategoryQuotes},
	{"Magento_NegotiableQuote::checkout", "Checkout Quote", CategoryQuotes},
	{"Magento_NegotiableQuote::view_quotes_sub", "View Subordinate Quotes", CategoryQuotes},

	{"Magento_PurchaseOrder::all", "Order Approvals", CategoryPurchaseOrders},
	{"Magento_PurchaseOrder::view_purchase_orders", "View My POs", CategoryPurchaseOrders},
	{"Magento_PurchaseOrder::view_purchase_orders_for_subordinates", "View Subordinate POs", CategoryPurchaseOrders},
	{"Magento_PurchaseOrder::view_purchase_orders_for_company", "View Company POs", CategoryPurchaseOrders},
	{"Magento_PurchaseOrder::autoapprove_purchase_order", "Auto-approve POs", CategoryPurchaseOrders},
	// Approval rule resources live under PurchaseOrderRule, not PurchaseOrder
	{"Magento_PurchaseOrderRule::super_approve_purchase_order", "Super Approve", CategoryPurchaseOrders},
	{"Magento_PurchaseOrderRule::view_approval_rules", "View Approval Rules", CategoryPurchaseOrders},
	{"Magento_PurchaseOrderRule::manage_approval_rules", "Manage Approval Rules", CategoryPurchaseOrders},

	{"Magento_Company::view", "Company Profile", CategoryCompany},
	{"Magento_Company::view_account", "View Account", CategoryCompany},
	{"Magento_Company::edit_account", "Edit Account", CategoryCompany},
	{"Magento_Company::view_address", "View Address", CategoryCompany},
	{"Magento_Company::edit_address", "Edit Address", CategoryCompany},
	{"Magento_Company::contacts", "View Contacts", CategoryCompany},
	{"Magento_Company::payment_information", "View Payment Info", CategoryCompany},
	{"Magento_Company::shipping_information", "View Shipping Info", CategoryCompany},

	{"Magento_Company::user_management", "User Management", CategoryUsers},
	{"Magento_Company::roles_view", "View Roles", CategoryUsers},
	{"Magento_Company::roles_edit", "Manage Roles", CategoryUsers},
	{"Magento_Company::users_view", "View Users", CategoryUsers},
	{"Magento_Company::users_edit", "Manage Users", CategoryUsers},

	{"Magento_Company::credit", "Company Credit", CategoryCredit},
	{"Magento_Company::credit_history", "Credit History", CategoryCredit},
}

var aclIndex = func() map[string]int {
	idx := make(map[string]int, len(aclCatalog))
	for i, p := range aclCatalog {
		idx[p.ResourceID] = i
	}
	return idx
}()

// ACLCatalog returns a copy of the full catalog in display order
func ACLCatalog() []ACLPermission {
	out := make([]ACLPermission, len(aclCatalog))
	copy(out, aclCatalog)
	return out
}

// LookupACL returns the catalog entry for resourceID
func LookupACL(resourceID string) (ACLPermission, bool) {
	i, ok := aclIndex[resourceID]
	if !ok {
		return ACLPermission{}, false
	}
	return aclCatalog[i], true
}

// ACLDisplayName returns the display name of resourceID, or resourceID itself when unknown
func ACLDisplayName(resourceID string) string {
	if p, ok := LookupACL(resourceID); ok {
		return p.DisplayName
	}
	return resourceID
}
