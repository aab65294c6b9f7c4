package server

import "html/template"

// pages holds every page of the fixture storefront. Markup follows the
// SauceDemo element contract: data-test attributes on form controls, class
// names on the listing, cart and summary views.
var pages = template.Must(template.New("pages").Parse(pagesHTML))

const pagesHTML = `
{{define "head"}}<!DOCTYPE html>
<html>
<head>
    <title>Swag Labs</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            max-width: 960px;
            margin: 0 auto;
            padding: 20px;
            background: #f5f5f5;
        }
        .container {
            background: white;
            padding: 30px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        .primary_header { display: flex; align-items: center; gap: 20px; margin-bottom: 20px; }
        .app_logo { flex: 1; font-size: 24px; font-weight: 600; }
        .shopping_cart_link { position: relative; display: inline-block; padding: 8px 14px; }
        .shopping_cart_badge {
            background: #e2231a; color: white; border-radius: 50%;
            padding: 2px 7px; font-size: 12px; margin-left: 4px;
        }
        .bm-menu-wrap { position: fixed; top: 0; left: 0; width: 260px; height: 100%; background: #fff; box-shadow: 2px 0 6px rgba(0,0,0,0.2); padding: 40px 20px; }
        .bm-item { display: block; padding: 10px 0; }
        button {
            background: #4285f4;
            color: white;
            border: none;
            padding: 10px 20px;
            border-radius: 4px;
            cursor: pointer;
            font-size: 15px;
        }
        button.btn_secondary { background: #fff; color: #e2231a; border: 1px solid #e2231a; }
        .inventory_item, .cart_item { display: flex; justify-content: space-between; align-items: center; padding: 12px 0; border-bottom: 1px solid #eee; }
        .inventory_item_name { font-weight: 500; }
        .inventory_item_price { color: #333; margin: 0 16px; }
        .error-message-container { color: #721c24; background: #f8d7da; padding: 10px; border-radius: 4px; margin: 10px 0; }
        input { display: block; margin: 10px 0; padding: 8px; width: 300px; }
        .summary_info div { margin: 6px 0; }
    </style>
</head>
<body>
<div class="container">
{{end}}

{{define "header"}}
    <div class="primary_header">
        <button id="react-burger-menu-btn" type="button">Open Menu</button>
        <div class="app_logo">Swag Labs</div>
        <a class="shopping_cart_link" data-test="shopping-cart-link" href="/cart.html">Cart{{if gt .Badge 0}}<span class="shopping_cart_badge" data-test="shopping-cart-badge">{{.Badge}}</span>{{end}}</a>
    </div>
    <div class="bm-menu-wrap" aria-hidden="true" style="display: none">
        <nav class="bm-item-list">
            <a id="inventory_sidebar_link" class="bm-item" href="/inventory.html">All Items</a>
            <a id="logout_sidebar_link" class="bm-item" data-test="logout-sidebar-link" href="/logout">Logout</a>
        </nav>
        <button id="react-burger-cross-btn" type="button">Close Menu</button>
    </div>
{{end}}

{{define "foot"}}
</div>
<script>
    function setBadge(n) {
        const link = document.querySelector('.shopping_cart_link');
        let badge = document.querySelector('.shopping_cart_badge');
        if (n > 0) {
            if (!badge) {
                badge = document.createElement('span');
                badge.className = 'shopping_cart_badge';
                badge.setAttribute('data-test', 'shopping-cart-badge');
                link.appendChild(badge);
            }
            badge.textContent = String(n);
        } else if (badge) {
            badge.remove();
        }
    }

    function setMenu(open) {
        const wrap = document.querySelector('.bm-menu-wrap');
        if (!wrap) return;
        wrap.style.display = open ? 'block' : 'none';
        wrap.setAttribute('aria-hidden', open ? 'false' : 'true');
    }

    document.addEventListener('click', async (ev) => {
        if (ev.target.closest('#react-burger-menu-btn')) { setMenu(true); return; }
        if (ev.target.closest('#react-burger-cross-btn')) { setMenu(false); return; }

        const btn = ev.target.closest('button[data-id]');
        if (!btn) return;
        const inCart = btn.dataset.inCart === 'true';
        btn.disabled = true;
        try {
            const res = await fetch('/api/cart/' + btn.dataset.id, {
                method: inCart ? 'DELETE' : 'POST',
                credentials: 'same-origin'
            });
            if (!res.ok) return;
            const body = await res.json();
            setBadge(body.count);
            if (btn.dataset.row === 'cart') {
                btn.closest('.cart_item').remove();
                return;
            }
            btn.dataset.inCart = inCart ? 'false' : 'true';
            btn.textContent = inCart ? 'Add to cart' : 'Remove';
            btn.classList.toggle('btn_secondary', !inCart);
        } finally {
            btn.disabled = false;
        }
    });

    const sorter = document.querySelector('.product_sort_container');
    if (sorter) {
        sorter.addEventListener('change', () => {
            const list = document.querySelector('.inventory_list');
            const name = (e) => e.querySelector('.inventory_item_name').textContent.trim();
            const price = (e) => parseFloat(e.querySelector('.inventory_item_price').textContent.replace('$', ''));
            const cmp = {
                az: (a, b) => name(a).localeCompare(name(b)),
                za: (a, b) => name(b).localeCompare(name(a)),
                lohi: (a, b) => price(a) - price(b),
                hilo: (a, b) => price(b) - price(a)
            }[sorter.value];
            Array.from(list.querySelectorAll('.inventory_item')).sort(cmp).forEach((e) => list.appendChild(e));
            history.replaceState(null, '', '?sort=' + sorter.value);
        });
    }
</script>
</body>
</html>
{{end}}

{{define "login"}}{{template "head" .}}
    <div class="login_logo">Swag Labs</div>
    <form class="login-box" method="post" action="/login">
        <input class="input_error form_input" placeholder="Username" type="text" data-test="username" id="user-name" name="user-name" autocorrect="off" autocapitalize="none">
        <input class="input_error form_input" placeholder="Password" type="password" data-test="password" id="password" name="password" autocorrect="off" autocapitalize="none">
        {{if .Error}}<div class="error-message-container error"><h3 data-test="error">{{.Error}}</h3></div>{{end}}
        <input type="submit" class="submit-button btn_action" data-test="login-button" id="login-button" name="login-button" value="Login">
    </form>
{{template "foot" .}}{{end}}

{{define "inventory"}}{{template "head" .}}{{template "header" .}}
    <div class="header_secondary_container">
        <span class="title" data-test="title">Products</span>
        <select class="product_sort_container" data-test="product-sort-container">
            {{range .SortOptions}}<option value="{{.Value}}"{{if .Selected}} selected{{end}}>{{.Label}}</option>
            {{end}}
        </select>
    </div>
    <div class="inventory_list" data-test="inventory-list">
        {{range .Items}}<div class="inventory_item" data-test="inventory-item">
            <div class="inventory_item_description">
                <div class="inventory_item_name" data-test="inventory-item-name">{{.Name}}</div>
                <div class="inventory_item_desc">{{.Description}}</div>
            </div>
            <div class="pricebar">
                <div class="inventory_item_price" data-test="inventory-item-price">${{.Price}}</div>
                {{if .InCart}}<button class="btn btn_secondary btn_inventory" data-test="remove-{{.Slug}}" data-id="{{.ID}}" data-in-cart="true">Remove</button>
                {{else}}<button class="btn btn_primary btn_inventory" data-test="add-to-cart-{{.Slug}}" data-id="{{.ID}}" data-in-cart="false">Add to cart</button>{{end}}
            </div>
        </div>
        {{end}}
    </div>
{{template "foot" .}}{{end}}

{{define "cart"}}{{template "head" .}}{{template "header" .}}
    <span class="title" data-test="title">Your Cart</span>
    <div class="cart_list" data-test="cart-list">
        <div class="cart_quantity_label">QTY</div>
        {{range .Items}}<div class="cart_item" data-test="inventory-item">
            <div class="cart_quantity" data-test="item-quantity">1</div>
            <div class="inventory_item_name" data-test="inventory-item-name">{{.Name}}</div>
            <div class="inventory_item_price" data-test="inventory-item-price">${{.Price}}</div>
            <button class="btn btn_secondary cart_button" data-test="remove-{{.Slug}}" data-id="{{.ID}}" data-in-cart="true" data-row="cart">Remove</button>
        </div>
        {{end}}
    </div>
    <div class="cart_footer">
        <button class="btn btn_secondary back" data-test="continue-shopping" id="continue-shopping" onclick="location.href='/inventory.html'">Continue Shopping</button>
        <button class="btn btn_action checkout_button" data-test="checkout" id="checkout" onclick="location.href='/checkout-step-one.html'">Checkout</button>
    </div>
{{template "foot" .}}{{end}}

{{define "step-one"}}{{template "head" .}}{{template "header" .}}
    <span class="title" data-test="title">Checkout: Your Information</span>
    <form class="checkout_info" method="post" action="/checkout-step-one.html" novalidate>
        <input class="input_error form_input" placeholder="First Name" type="text" data-test="firstName" id="first-name" name="firstName" value="{{.Info.FirstName}}">
        <input class="input_error form_input" placeholder="Last Name" type="text" data-test="lastName" id="last-name" name="lastName" value="{{.Info.LastName}}">
        <input class="input_error form_input" placeholder="Zip/Postal Code" type="text" data-test="postalCode" id="postal-code" name="postalCode" value="{{.Info.PostalCode}}">
        {{if .Error}}<div class="error-message-container error"><h3 data-test="error">{{.Error}}</h3></div>{{end}}
        <input type="submit" class="submit-button btn btn_primary cart_button btn_action" data-test="continue" id="continue" name="continue" value="Continue">
    </form>
{{template "foot" .}}{{end}}

{{define "step-two"}}{{template "head" .}}{{template "header" .}}
    <span class="title" data-test="title">Checkout: Overview</span>
    <div class="cart_list" data-test="cart-list">
        {{range .Items}}<div class="cart_item" data-test="inventory-item">
            <div class="cart_quantity" data-test="item-quantity">1</div>
            <div class="inventory_item_name" data-test="inventory-item-name">{{.Name}}</div>
            <div class="inventory_item_price" data-test="inventory-item-price">${{.Price}}</div>
        </div>
        {{end}}
    </div>
    <div class="summary_info">
        <div class="summary_subtotal_label" data-test="subtotal-label">Item total: ${{.Subtotal}}</div>
        <div class="summary_tax_label" data-test="tax-label">Tax: ${{.Tax}}</div>
        <div class="summary_total_label" data-test="total-label">Total: ${{.Total}}</div>
    </div>
    <form method="post" action="/checkout/finish">
        <button type="submit" class="btn btn_action cart_button" data-test="finish" id="finish">Finish</button>
    </form>
{{template "foot" .}}{{end}}

{{define "complete"}}{{template "head" .}}{{template "header" .}}
    <span class="title" data-test="title">Checkout: Complete!</span>
    <div class="checkout_complete_container">
        <h2 class="complete-header" data-test="complete-header">Thank you for your order!</h2>
        <div class="complete-text" data-test="complete-text">Your order has been dispatched, and will arrive just as fast as the pony can get there!</div>
        <button class="btn btn_primary" data-test="back-to-products" id="back-to-products" onclick="location.href='/inventory.html'">Back Home</button>
    </div>
{{template "foot" .}}{{end}}
`
