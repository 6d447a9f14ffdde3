package webui

import (
	"html/template"
)

// pageTemplates renders the panel with html/template, whose contextual
// escaping covers everything user-supplied on the way out.
var pageTemplates = template.Must(template.New("pages").Parse(`
{{define "head"}}
<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Storefront</title>
<style>
body { font-family: sans-serif; margin: 2rem; max-width: 60rem; }
.alert { padding: .5rem 1rem; border-radius: 4px; margin-bottom: 1rem; }
.alert-success { background: #d4edda; }
.alert-info { background: #d1ecf1; }
.alert-warning { background: #fff3cd; }
.alert-danger { background: #f8d7da; }
.badge { font-size: .75rem; padding: .1rem .4rem; border: 1px solid #999; border-radius: 3px; }
.card { border: 1px solid #ddd; border-radius: 4px; padding: 1rem; margin-bottom: 1rem; }
.muted { color: #666; }
form.inline { display: inline; }
</style>
</head>
<body>
{{end}}

{{define "alert"}}
{{if .Alert}}<div class="alert alert-{{.AlertKind}}">{{.Alert}}</div>{{end}}
{{end}}

{{define "storefront"}}
{{template "head" .}}
{{template "alert" .}}
<p>
Connection: <span class="badge">{{.Connection}}</span>
<span class="muted">{{.Endpoint}}</span>
{{if .Offline}}<span class="badge">offline catalog</span>{{end}}
<form class="inline" method="post" action="/reconnect"><button>Reconnect</button></form>
<a href="/admin">Admin</a>
</p>

<h1>Products</h1>
<form method="get" action="/">
<input name="q" placeholder="Search" value="{{.Search}}">
<select name="category">
<option value="">All categories</option>
{{range $cat, $_ := .Categories}}
<option value="{{$cat}}" {{if eq $cat $.Category}}selected{{end}}>{{$cat}}</option>
{{end}}
</select>
<button>Filter</button>
</form>

{{range .Products}}
<div class="card">
<strong>{{.Name}}</strong> <span class="badge">{{.Category}}</span><br>
<span class="muted">{{if .Description}}{{.Description}}{{else}}No description{{end}}</span><br>
${{printf "%.2f" .Price}} &middot; Stock: {{.Stock}}
<form class="inline" method="post" action="/cart/add">
<input type="hidden" name="product_id" value="{{.ID}}">
<input type="number" name="quantity" value="1" min="1" max="{{.Stock}}" style="width:4rem">
<button {{if not .InStock}}disabled{{end}}>Add to cart</button>
</form>
{{if not .InStock}}<span class="muted">Out of stock</span>{{end}}
</div>
{{else}}
<p class="muted">No products available.</p>
{{end}}

<h2>Cart</h2>
{{range .CartItems}}
<div class="card">
<strong>{{.Name}}</strong> <span class="muted">{{.Category}}</span><br>
${{printf "%.2f" .Price}} x {{.Quantity}} = ${{printf "%.2f" .Subtotal}}
<form class="inline" method="post" action="/cart/adjust">
<input type="hidden" name="product_id" value="{{.ProductID}}">
<input type="hidden" name="delta" value="-1"><button>-</button>
</form>
<form class="inline" method="post" action="/cart/adjust">
<input type="hidden" name="product_id" value="{{.ProductID}}">
<input type="hidden" name="delta" value="1"><button>+</button>
</form>
<form class="inline" method="post" action="/cart/remove">
<input type="hidden" name="product_id" value="{{.ProductID}}">
<button>Remove</button>
</form>
</div>
{{else}}
<p class="muted">Your cart is empty.</p>
{{end}}

{{if .CartItems}}
<p><strong>Total: ${{printf "%.2f" .CartTotal}}</strong></p>
<h3>Checkout</h3>
<form method="post" action="/checkout">
<p><input name="customer_name" placeholder="Customer name"></p>
<p><input name="discord_id" placeholder="Discord ID"></p>
<p><textarea name="additional_info" placeholder="Additional info"></textarea></p>
<button>Place order</button>
</form>
{{end}}
</body></html>
{{end}}

{{define "admin_login"}}
{{template "head" .}}
{{template "alert" .}}
<h1>Admin login</h1>
<form method="post" action="/admin/login">
<p><input name="username" placeholder="Username"></p>
<p><input name="password" type="password" placeholder="Password"></p>
<button>Login</button>
</form>
<p><a href="/">Back to store</a></p>
</body></html>
{{end}}

{{define "admin_dashboard"}}
{{template "head" .}}
{{template "alert" .}}
<p>
<a href="/">Store</a>
<form class="inline" method="post" action="/admin/logout"
      onsubmit="return confirm('Log out?')"><button>Logout</button></form>
{{if .Offline}}<span class="badge">offline catalog</span>{{end}}
</p>

<h1>Statistics</h1>
<div class="card">
Products: {{.Stats.TotalProducts}} &middot;
Total stock: {{.Stats.TotalStock}} &middot;
Orders: {{.Stats.TotalOrders}} &middot;
Gross revenue: ${{printf "%.2f" .Stats.GrossRevenue}}<br>
{{range $status, $count := .Stats.OrdersByStatus}}
<span class="badge">{{$status}}: {{$count}}</span>
{{end}}
</div>

<h1>Products</h1>
<div class="card">
<h3>New product</h3>
<form method="post" action="/admin/products">
<p><input name="name" placeholder="Name"></p>
<p><input name="category" placeholder="Category"></p>
<p><input name="price" type="number" step="0.01" min="0" placeholder="Price"></p>
<p><input name="stock" type="number" min="0" placeholder="Stock"></p>
<p><textarea name="description" placeholder="Description"></textarea></p>
<button>Create</button>
</form>
</div>

{{range .Products}}
<div class="card">
<strong>{{.Name}}</strong> <span class="badge">{{.Category}}</span>
<span class="muted">{{.Description}}</span><br>
<form method="post" action="/admin/products/{{.ID}}">
<input name="name" value="{{.Name}}">
<input name="category" value="{{.Category}}">
<input name="price" type="number" step="0.01" min="0" value="{{.Price}}" style="width:6rem">
<input name="stock" type="number" min="0" value="{{.Stock}}" style="width:4rem">
<input name="description" value="{{.Description}}">
<button>Update</button>
</form>
<form class="inline" method="post" action="/admin/products/{{.ID}}/delete"
      onsubmit="return confirm('Delete this product?')">
<button>Delete</button>
</form>
</div>
{{else}}
<p class="muted">No products yet.</p>
{{end}}

<h1>Orders</h1>
{{range .Orders}}
<div class="card">
<strong>Order {{.ID}}</strong> <span class="badge">{{.Status}}</span><br>
Customer: {{.CustomerName}} &middot; Discord: {{.DiscordID}}<br>
{{if .AdditionalInfo}}<span class="muted">{{.AdditionalInfo}}</span><br>{{end}}
Total: ${{printf "%.2f" .TotalPrice}} &middot; {{.CreatedAt.Format "2006-01-02 15:04"}}
<ul>
{{range .Items}}<li>{{.Name}} - {{.Quantity}} x ${{printf "%.2f" .Price}}</li>{{end}}
</ul>
<form method="post" action="/admin/orders/{{.ID}}/status">
<select name="status">
{{$order := .}}
{{range $.Statuses}}
<option value="{{.}}" {{if eq . $order.Status}}selected{{end}}>{{.}}</option>
{{end}}
</select>
<button>Update status</button>
</form>
</div>
{{else}}
<p class="muted">No orders yet.</p>
{{end}}
</body></html>
{{end}}
`))
