package server

// HTMLPage is the single-page fixture site. It exposes the data-e2e-id
// contract of the book club application and builds title ids with the
// same rule as bookclub.Slug.
const HTMLPage = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Book Club Fixture Site</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            max-width: 800px;
            margin: 50px auto;
            padding: 20px;
            background: #f5f5f5;
        }
        .container {
            background: white;
            padding: 30px;
            border-radius: 8px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        nav a { margin-right: 16px; }
        label { display: block; margin: 12px 0 4px; }
        input { padding: 8px; width: 100%; box-sizing: border-box; }
        button {
            background: #4285f4;
            color: white;
            border: none;
            padding: 12px 24px;
            border-radius: 4px;
            cursor: pointer;
            font-size: 16px;
            margin-top: 16px;
        }
        .feedback { margin-top: 12px; color: #188038; }
        .error { margin-top: 12px; color: #d93025; }
        [hidden] { display: none !important; }
    </style>
</head>
<body>
    <div class="container">
        <nav>
            <a href="/" data-e2e-id="link-to-signup">Sign up</a>
            <a href="/book-list" data-e2e-id="link-to-booklist">Book list</a>
        </nav>

        <section id="signup-view">
            <h1>Join the Book Club</h1>
            <form id="signup-form" onsubmit="return false">
                <label for="name">Name</label>
                <input id="name" data-e2e-id="name" autocomplete="off">
                <label for="email">Email</label>
                <input id="email" data-e2e-id="email" type="email" autocomplete="off">
                <label for="genre">Favourite genre</label>
                <input id="genre" data-e2e-id="genre" autocomplete="off">
                <button type="button" data-e2e-id="submit">Sign up</button>
            </form>
            <div id="feedback"></div>
            <div id="signup-error" class="error" data-e2e-id="signup-error" hidden></div>
        </section>

        <section id="booklist-view" hidden>
            <h1>Books</h1>
            <ul id="books" data-e2e-id="books"></ul>
            <div id="booklist-error" class="error" data-e2e-id="booklist-error" hidden></div>
        </section>
    </div>

    <script>
        const api = window.location.origin + '/api';
        let feedbackCount = 0;

        function e2eId(title) {
            return 'title-' + title.toLowerCase().split(' ').join('-');
        }

        function showError(id, msg) {
            const el = document.getElementById(id);
            el.textContent = msg;
            el.hidden = false;
        }

        async function loadBooks() {
            const list = document.getElementById('books');
            list.replaceChildren();
            document.getElementById('booklist-error').hidden = true;
            try {
                const res = await fetch(api + '/booklist');
                if (!res.ok) {
                    throw new Error('booklist returned ' + res.status);
                }
                const books = await res.json();
                for (const book of books) {
                    const li = document.createElement('li');
                    const title = document.createElement('span');
                    title.setAttribute('data-e2e-id', e2eId(book.title));
                    title.textContent = book.title;
                    li.appendChild(title);
                    if (book.author) {
                        li.appendChild(document.createTextNode(' by ' + book.author));
                    }
                    list.appendChild(li);
                }
            } catch (err) {
                showError('booklist-error', err.message || String(err));
            }
        }

        function render() {
            const onList = window.location.pathname === '/book-list';
            document.getElementById('signup-view').hidden = onList;
            document.getElementById('booklist-view').hidden = !onList;
            if (onList) {
                loadBooks();
            }
        }

        function navigate(path) {
            if (window.location.pathname !== path) {
                history.pushState({}, '', path);
            }
            render();
        }

        async function submitSignUp() {
            const body = {
                name: document.getElementById('name').value,
                email: document.getElementById('email').value,
                genre: document.getElementById('genre').value
            };
            document.getElementById('signup-error').hidden = true;
            try {
                const res = await fetch(api + '/bookclubsignup', {
                    method: 'POST',
                    headers: { 'Content-Type': 'application/json' },
                    body: JSON.stringify(body)
                });
                if (!res.ok) {
                    throw new Error('sign up returned ' + res.status);
                }
                const div = document.createElement('div');
                div.className = 'feedback';
                div.setAttribute('data-e2e-id', 'feedback' + feedbackCount++);
                div.textContent = 'Thanks ' + body.name + ', we will be in touch about ' + body.genre + ' books.';
                document.getElementById('feedback').appendChild(div);
            } catch (err) {
                showError('signup-error', err.message || String(err));
            }
        }

        document.querySelectorAll('nav a').forEach(a => {
            a.addEventListener('click', e => {
                e.preventDefault();
                navigate(a.getAttribute('href'));
            });
        });
        document.querySelector('[data-e2e-id="submit"]').addEventListener('click', submitSignUp);
        window.addEventListener('popstate', render);
        render();
    </script>
</body>
</html>
`
